// Package urlenc decodes application/x-www-form-urlencoded request bodies.
//
// Decoding is hand-rolled: pairs split on '&' and '=', with '+' and percent
// sequences decoded in place. Besides flat key/value access the package
// understands the bracketed conventions many form encoders emit: nested
// dictionaries (`user[name]=x`) and indexed arrays (`tags[0]=a&tags[1]=b`).
package urlenc

import (
	"sort"
	"strconv"
	"strings"
)

// Values holds decoded form data as a flat key/value mapping.
type Values map[string]string

// Parse decodes a form-encoded string. A pair with a missing value decodes to
// the empty string.
func Parse(s string) Values {
	vals := make(Values)
	if s == "" {
		return vals
	}

	for _, pair := range strings.Split(s, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if k == "" {
			continue
		}

		vals[decode(k)] = decode(v)
	}

	return vals
}

// Get retrieves the value under key converted to T. Supported types are
// string, int32, int64, float64 and bool.
func Get[T any](vals Values, key string) (T, bool) {
	var zero T

	raw, ok := vals[key]
	if !ok {
		return zero, false
	}

	return convert[T](raw)
}

// Dict collects the nested dictionary encoded under `key[sub]=v` pairs.
func (v Values) Dict(key string) Values {
	out := make(Values)
	prefix := key + "["

	for k, val := range v {
		if !strings.HasPrefix(k, prefix) {
			continue
		}

		sub := strings.Replace(strings.TrimPrefix(k, prefix), "]", "", 1)
		out[sub] = val
	}

	return out
}

// Slice collects the indexed array encoded under `key[0]=a&key[1]=b` pairs,
// ordered by index.
func (v Values) Slice(key string) []string {
	idx, parts := v.indexed(key)

	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, parts[i])
	}

	return out
}

// DictSlice collects an array of dictionaries encoded under
// `key[0][sub]=v` pairs, ordered by index.
func (v Values) DictSlice(key string) []Values {
	prefix := key + "["
	byIndex := map[int]Values{}

	for k, val := range v {
		if !strings.HasPrefix(k, prefix) {
			continue
		}

		rest := strings.TrimPrefix(k, prefix)
		idxStr, sub, ok := strings.Cut(rest, "]")
		if !ok {
			continue
		}

		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			continue
		}

		sub = strings.Replace(strings.TrimPrefix(sub, "["), "]", "", 1)

		if byIndex[idx] == nil {
			byIndex[idx] = make(Values)
		}

		byIndex[idx][sub] = val
	}

	idx := make([]int, 0, len(byIndex))
	for i := range byIndex {
		idx = append(idx, i)
	}

	sort.Ints(idx)

	out := make([]Values, 0, len(idx))
	for _, i := range idx {
		out = append(out, byIndex[i])
	}

	return out
}

// GetSlice collects the indexed array under key with every element converted
// to T. Elements that fail to convert are dropped.
func GetSlice[T any](vals Values, key string) []T {
	raw := vals.Slice(key)

	out := make([]T, 0, len(raw))
	for _, r := range raw {
		v, ok := convert[T](r)
		if !ok {
			continue
		}

		out = append(out, v)
	}

	return out
}

func (v Values) indexed(key string) ([]int, map[int]string) {
	prefix := key + "["
	parts := map[int]string{}

	for k, val := range v {
		if !strings.HasPrefix(k, prefix) {
			continue
		}

		idxStr, _, _ := strings.Cut(strings.TrimPrefix(k, prefix), "]")

		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			continue
		}

		parts[idx] = val
	}

	idx := make([]int, 0, len(parts))
	for i := range parts {
		idx = append(idx, i)
	}

	sort.Ints(idx)

	return idx, parts
}

func convert[T any](raw string) (T, bool) {
	var zero T
	var out any

	switch any(zero).(type) {
	case string:
		out = raw
	case int32:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return zero, false
		}

		out = int32(n)
	case int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}

		out = n
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}

		out = f
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}

		out = b
	default:
		return zero, false
	}

	return out.(T), true
}

// decode reverses '+' and percent encoding. Malformed percent sequences are
// copied through untouched.
func decode(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '+':
			b.WriteByte(' ')
		case s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
