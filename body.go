package bserve

import (
	"strings"

	"github.com/advdv/bserve/bjson"
	"github.com/advdv/bserve/urlenc"
)

// Recognized request content types. Anything else, including an absent
// content-type header, classifies as binary.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeLDJSON      = "application/ld+json"
	ContentTypeURLEncoded  = "application/x-www-form-urlencoded"
	ContentTypePlainText   = "text/plain"
	ContentTypeOctetStream = "application/octet-stream"
)

// BodyKind tags the in-memory representation a request body was classified
// into.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyBinary
	BodyJSONObject
	BodyJSONArray
	BodyForm
	BodyText
)

// Body is the tagged union holding a classified request body. Accessors come
// in two flavors: the erroring ones return a 400 [*Error] on a kind mismatch,
// the OrEmpty ones degrade to an empty value.
type Body struct {
	kind BodyKind

	raw  []byte
	obj  *bjson.Object
	arr  *bjson.Array
	form urlenc.Values
	text string
}

func noBody() *Body {
	return &Body{kind: BodyNone}
}

// classifyBody maps a declared content type and raw bytes onto a tagged body
// value. JSON bodies pick object or array form depending on whether the
// trimmed payload starts with '['.
func classifyBody(contentType string, data []byte) *Body {
	switch contentType {
	case ContentTypeJSON, ContentTypeLDJSON:
		text := string(data)
		if strings.HasPrefix(strings.TrimSpace(text), "[") {
			return &Body{kind: BodyJSONArray, arr: bjson.ParseArray(text)}
		}

		return &Body{kind: BodyJSONObject, obj: bjson.ParseObject(text)}
	case ContentTypeURLEncoded:
		return &Body{kind: BodyForm, form: urlenc.Parse(string(data))}
	case ContentTypePlainText:
		return &Body{kind: BodyText, text: string(data)}
	default:
		return &Body{kind: BodyBinary, raw: data}
	}
}

// Kind returns the classification tag.
func (b *Body) Kind() BodyKind { return b.kind }

// Object returns the body as a JSON object.
func (b *Body) Object() (*bjson.Object, error) {
	if b.kind != BodyJSONObject {
		return nil, BadRequest("expected JSON object body")
	}

	return b.obj, nil
}

// ObjectOrEmpty returns the body as a JSON object, degrading to an empty one.
func (b *Body) ObjectOrEmpty() *bjson.Object {
	if b.kind != BodyJSONObject {
		return bjson.NewObject()
	}

	return b.obj
}

// Array returns the body as a JSON array.
func (b *Body) Array() (*bjson.Array, error) {
	if b.kind != BodyJSONArray {
		return nil, BadRequest("expected JSON array body")
	}

	return b.arr, nil
}

// ArrayOrEmpty returns the body as a JSON array, degrading to an empty one.
func (b *Body) ArrayOrEmpty() *bjson.Array {
	if b.kind != BodyJSONArray {
		return bjson.NewArray()
	}

	return b.arr
}

// Form returns the body as decoded form values.
func (b *Body) Form() (urlenc.Values, error) {
	if b.kind != BodyForm {
		return nil, BadRequest("expected form encoded body")
	}

	return b.form, nil
}

// FormOrEmpty returns the body as decoded form values, degrading to an empty
// mapping.
func (b *Body) FormOrEmpty() urlenc.Values {
	if b.kind != BodyForm {
		return urlenc.Values{}
	}

	return b.form
}

// Text returns the body as plain text.
func (b *Body) Text() (string, error) {
	if b.kind != BodyText {
		return "", BadRequest("expected plain text body")
	}

	return b.text, nil
}

// Bytes returns the raw bytes of a binary body, and nil for any other kind.
func (b *Body) Bytes() []byte {
	if b.kind != BodyBinary {
		return nil
	}

	return b.raw
}
