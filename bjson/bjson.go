// Package bjson implements a hand-rolled JSON codec with a lazily-typed value
// model.
//
// Parsing an [Object] or [Array] does not decode values. Instead every value
// is captured as a raw, delimiter-bounded slice of the input text and only
// converted to a concrete Go type when it is retrieved with [Get], [At] or one
// of the other typed accessors. This keeps parsing a single linear scan and
// means an application only pays for the fields it actually reads.
//
// The inverse direction works through [Encode]: every supported value renders
// itself to JSON text, and application types can participate by implementing
// [Marshaler].
package bjson

import (
	"sort"
	"strings"
)

// Object is a JSON object: a mapping from key to a raw, still-encoded value
// slice. A repeated key resolves to the last occurrence.
type Object struct {
	keys map[string]string
}

// NewObject creates an empty object, useful for building JSON from scratch.
func NewObject() *Object {
	return &Object{keys: make(map[string]string)}
}

// ParseObject scans the given JSON text into an Object. Values are captured
// raw and decoded lazily on retrieval.
func ParseObject(s string) *Object {
	obj := NewObject()
	sc := &scanner{s: s}

	for {
		c, ok := sc.next()
		if !ok {
			break
		}
		if c != '"' {
			continue
		}

		key := deriveKey(sc)
		val := deriveValue(sc)
		obj.keys[key] = val
	}

	return obj
}

// Set stores the encoded form of v under key.
func (o *Object) Set(key string, v any) {
	o.keys[key] = Encode(v)
}

// SetRaw stores an already-encoded JSON fragment under key.
func (o *Object) SetRaw(key, raw string) {
	o.keys[key] = raw
}

// Raw returns the raw value slice stored under key.
func (o *Object) Raw(key string) (string, bool) {
	v, ok := o.keys[key]
	return v, ok
}

// Has reports whether the key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.keys[key]
	return ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the object's keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.keys))
	for k := range o.keys {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// String renders the object as JSON text. Keys are emitted in sorted order so
// output is deterministic.
func (o *Object) String() string {
	var b strings.Builder
	b.WriteByte('{')

	for i, k := range o.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteByte('"')
		b.WriteString(k)
		b.WriteString(`":`)
		b.WriteString(o.keys[k])
	}

	b.WriteByte('}')

	return b.String()
}

// Array is a JSON array: an ordered sequence of raw, still-encoded value
// slices.
type Array struct {
	values []string
}

// NewArray creates an empty array, useful for building JSON from scratch.
func NewArray() *Array {
	return &Array{}
}

// ParseArray scans the given JSON text into an Array. Elements are captured
// raw and decoded lazily on retrieval.
func ParseArray(s string) *Array {
	arr := NewArray()
	sc := &scanner{s: s}

	// Skip leading whitespace and at most one opening bracket: a second
	// bracket already belongs to a nested first element.
	for {
		c, ok := sc.peek()
		if !ok {
			break
		}
		if isSpace(c) {
			sc.next()
			continue
		}
		if c == '[' {
			sc.next()
		}

		break
	}

	for {
		c, ok := sc.peek()
		if !ok {
			break
		}
		if c == ']' {
			sc.next()
			continue
		}

		v := deriveValue(sc)
		if v == "" {
			break
		}

		arr.values = append(arr.values, v)
	}

	return arr
}

// Append stores the encoded form of v at the end of the array.
func (a *Array) Append(v any) {
	a.values = append(a.values, Encode(v))
}

// AppendRaw stores an already-encoded JSON fragment at the end of the array.
func (a *Array) AppendRaw(raw string) {
	a.values = append(a.values, raw)
}

// Raw returns the raw value slice at index i.
func (a *Array) Raw(i int) (string, bool) {
	if i < 0 || i >= len(a.values) {
		return "", false
	}

	return a.values[i], true
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.values)
}

// String renders the array as JSON text.
func (a *Array) String() string {
	return "[" + strings.Join(a.values, ",") + "]"
}

// scanner is a byte cursor over the input text. JSON's structural characters
// are all ASCII so scanning bytes is safe: multi-byte runes only ever appear
// inside string values and are copied through untouched.
type scanner struct {
	s string
	i int
}

func (sc *scanner) next() (byte, bool) {
	if sc.i >= len(sc.s) {
		return 0, false
	}

	c := sc.s[sc.i]
	sc.i++

	return c, true
}

func (sc *scanner) peek() (byte, bool) {
	if sc.i >= len(sc.s) {
		return 0, false
	}

	return sc.s[sc.i], true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// deriveKey reads a key up to the next unescaped quote, then skips ahead past
// the separating colon. The opening quote has already been consumed.
func deriveKey(sc *scanner) string {
	var key strings.Builder
	backslashes := 0

	for {
		c, ok := sc.next()
		if !ok {
			break
		}

		if c == '"' && backslashes%2 == 0 {
			for {
				t, ok := sc.next()
				if !ok || t == ':' {
					break
				}
			}

			break
		}

		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}

		key.WriteByte(c)
	}

	return key.String()
}

// deriveValue skips separators and whitespace, then picks an extraction
// strategy from the first significant character: a quote starts a string, an
// opening brace or bracket starts a delimiter-counted composite, anything
// else is a bare primitive.
func deriveValue(sc *scanner) string {
	var start byte
	for {
		c, ok := sc.next()
		if !ok {
			return ""
		}
		if isSpace(c) || c == ',' {
			continue
		}

		start = c

		break
	}

	switch start {
	case '"':
		return extractString(sc)
	case '{':
		return extractComposite(sc, '{', '}')
	case '[':
		return extractComposite(sc, '[', ']')
	default:
		return extractPrimitive(sc, start)
	}
}

// extractString copies characters up to and including the closing unescaped
// quote. Escape state is tracked by counting immediately preceding
// backslashes so `\"` does not terminate the string but `\\"` does.
// Unescaping is deferred to typed retrieval.
func extractString(sc *scanner) string {
	var buf strings.Builder
	buf.WriteByte('"')

	backslashes := 0

	for {
		c, ok := sc.next()
		if !ok {
			break
		}

		buf.WriteByte(c)

		if c == '"' && backslashes%2 == 0 {
			break
		}

		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
	}

	return buf.String()
}

// extractComposite copies a nested object or array by tracking open/close
// delimiter depth. Quotes toggle an inside-string flag so delimiters embedded
// in string values do not corrupt the depth count. Whitespace outside strings
// is dropped.
func extractComposite(sc *scanner, open, clos byte) string {
	var buf strings.Builder
	buf.WriteByte(open)

	depth := 1
	backslashes := 0
	inString := false

	for {
		c, ok := sc.next()
		if !ok {
			break
		}

		if c == '"' && backslashes%2 == 0 {
			inString = !inString
		}
		if !inString && isSpace(c) {
			continue
		}

		buf.WriteByte(c)

		if !inString {
			switch c {
			case open:
				depth++
			case clos:
				depth--
			}
			if depth == 0 {
				break
			}
		}

		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
	}

	return buf.String()
}

// extractPrimitive copies a bare token (number, boolean or null) up to the
// next separator or closing delimiter.
func extractPrimitive(sc *scanner, start byte) string {
	var buf strings.Builder
	buf.WriteByte(start)

	for {
		c, ok := sc.next()
		if !ok {
			break
		}
		if isSpace(c) || c == ',' || c == '}' || c == ']' {
			break
		}

		buf.WriteByte(c)
	}

	return buf.String()
}
