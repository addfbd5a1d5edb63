package bjson

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Marshaler is implemented by application types that render themselves to a
// raw JSON fragment.
type Marshaler interface {
	MarshalRawJSON() string
}

// escaper handles the four escapes of the wire grammar: backslash, double
// quote, newline and tab. Backslash must come first so already-escaped pairs
// are not double-escaped.
var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

// EncodeString renders s as a quoted, escaped JSON string.
func EncodeString(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

// Encode renders any supported value to JSON text. Strings are quoted and
// escaped, numbers and booleans are bare tokens, nil renders as null, and
// composite values render recursively.
func Encode(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return EncodeString(t)
	case bool:
		if t {
			return "true"
		}

		return "false"
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case time.Time:
		return `"` + t.Format(time.RFC3339) + `"`
	case uuid.UUID:
		return `"` + t.String() + `"`
	case *Object:
		return t.String()
	case *Array:
		return t.String()
	case Marshaler:
		return t.MarshalRawJSON()
	default:
		return "null"
	}
}

// EncodeSlice renders a homogeneous slice, joining children with a comma.
func EncodeSlice[T any](vs []T) string {
	parts := make([]string, len(vs))
	for i := range vs {
		parts[i] = Encode(vs[i])
	}

	return "[" + strings.Join(parts, ",") + "]"
}

// EncodeMap renders a string-keyed map. Keys are emitted in sorted order so
// output is deterministic.
func EncodeMap[T any](m map[string]T) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = EncodeString(k) + ":" + Encode(m[k])
	}

	return "{" + strings.Join(parts, ",") + "}"
}
