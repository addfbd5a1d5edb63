package bjson

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseError describes a failed typed retrieval: either the key was absent or
// the raw slice could not be converted to the requested type.
type ParseError struct {
	Key  string
	Want string

	notFound bool
}

// NotFound reports whether the error was caused by an absent key rather than
// a conversion failure.
func (e *ParseError) NotFound() bool { return e.notFound }

func (e *ParseError) Error() string {
	if e.notFound {
		return "bjson: key " + strconv.Quote(e.Key) + " not found"
	}

	return "bjson: key " + strconv.Quote(e.Key) + " is not a valid " + e.Want
}

func errNotFound(key string) *ParseError {
	return &ParseError{Key: key, notFound: true}
}

func errInvalidType(key, want string) *ParseError {
	return &ParseError{Key: key, Want: want}
}

// unescaper reverses the four escapes the serializer emits. Retrieval-time
// unescaping keeps the parse a pure scan.
var unescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\n`, "\n", `\t`, "\t")

// Get retrieves the value under key as T. Supported types are string, int32,
// int64, float32, float64, bool, time.Time (RFC 3339), uuid.UUID, *Object and
// *Array. Failures are reported as a *ParseError.
func Get[T any](o *Object, key string) (T, error) {
	raw, ok := o.keys[key]
	return retrieve[T](key, raw, ok)
}

// At retrieves the element at index i as T. The index plays the role of the
// key in any resulting *ParseError.
func At[T any](a *Array, i int) (T, error) {
	key := strconv.Itoa(i)
	if i < 0 || i >= len(a.values) {
		var zero T
		return zero, errNotFound(key)
	}

	return retrieve[T](key, a.values[i], true)
}

// Opt retrieves the value under key as *T where an absent key or a JSON null
// yields nil without error.
func Opt[T any](o *Object, key string) (*T, error) {
	raw, ok := o.keys[key]
	if !ok || raw == "null" {
		return nil, nil
	}

	v, err := retrieve[T](key, raw, true)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// Slice retrieves the value under key as a homogeneous []T. A single failing
// element fails the whole sequence.
func Slice[T any](o *Object, key string) ([]T, error) {
	raw, ok := o.keys[key]
	if !ok {
		return nil, errNotFound(key)
	}

	return Map[T](ParseArray(raw))
}

// Map converts every element of the array to T. A single failing element
// fails the whole sequence.
func Map[T any](a *Array) ([]T, error) {
	if len(a.values) == 0 {
		return nil, nil
	}

	out := make([]T, 0, len(a.values))
	for i := range a.values {
		v, err := retrieve[T](strconv.Itoa(i), a.values[i], true)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// MapDrop converts every element of the array to T, silently dropping the
// elements that fail.
func MapDrop[T any](a *Array) []T {
	out := make([]T, 0, len(a.values))

	for i := range a.values {
		v, err := retrieve[T](strconv.Itoa(i), a.values[i], true)
		if err != nil {
			continue
		}

		out = append(out, v)
	}

	return out
}

// retrieve converts a raw slice into a concrete T. The type switch over the
// zero value stands in for per-type retrieval implementations.
func retrieve[T any](key, raw string, ok bool) (T, error) {
	var zero T
	if !ok {
		return zero, errNotFound(key)
	}

	var out any

	switch any(zero).(type) {
	case string:
		s, ok := unquote(raw)
		if !ok {
			return zero, errInvalidType(key, "string")
		}

		out = s
	case int32:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return zero, errInvalidType(key, "int32")
		}

		out = int32(n)
	case int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, errInvalidType(key, "int64")
		}

		out = n
	case float32:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return zero, errInvalidType(key, "float32")
		}

		out = float32(f)
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, errInvalidType(key, "float64")
		}

		out = f
	case bool:
		switch raw {
		case "true":
			out = true
		case "false":
			out = false
		default:
			return zero, errInvalidType(key, "bool")
		}
	case time.Time:
		s, ok := unquote(raw)
		if !ok {
			return zero, errInvalidType(key, "RFC 3339 timestamp")
		}

		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return zero, errInvalidType(key, "RFC 3339 timestamp")
		}

		out = t
	case uuid.UUID:
		s, ok := unquote(raw)
		if !ok {
			return zero, errInvalidType(key, "UUID")
		}

		id, err := uuid.Parse(s)
		if err != nil {
			return zero, errInvalidType(key, "UUID")
		}

		out = id
	case *Object:
		out = ParseObject(raw)
	case *Array:
		out = ParseArray(raw)
	default:
		return zero, errInvalidType(key, fmt.Sprintf("%T", zero))
	}

	return out.(T), nil
}

// unquote strips the surrounding quotes from a raw string slice and applies
// the deferred unescaping.
func unquote(raw string) (string, bool) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", false
	}

	return unescaper.Replace(raw[1 : len(raw)-1]), true
}
