package bserve

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/advdv/bserve/bjson"
	"github.com/samber/lo"
)

// Fixed name tables for the Date header. Weekdays are indexed from Monday.
var (
	weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	monthNames   = [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	}
)

// now is swapped in tests to pin the Date header.
var now = time.Now

// Response is an outgoing response: a status, a deterministically ordered
// header mapping and raw body bytes.
type Response struct {
	status  Status
	headers map[string]string
	body    []byte
}

// NewResponse creates an empty 200 response with no headers.
func NewResponse() *Response {
	return &Response{status: StatusOK, headers: make(map[string]string)}
}

// Data creates a response transmitting raw bytes. Every data response
// receives the auto-populated Content-Type, Content-Length, Date and
// Connection headers.
func Data(data []byte) *Response {
	resp := NewResponse()
	resp.body = data

	return resp.
		Header("Content-Type", "text/html").
		Header("Content-Length", strconv.Itoa(len(data))).
		Header("Date", httpDate(now().UTC())).
		Header("Connection", "close")
}

// String creates a text/plain response.
func String(s string) *Response {
	return Data([]byte(s)).Header("Content-Type", "text/plain")
}

// JSON creates an application/json response from any value the bjson encoder
// supports.
func JSON(v any) *Response {
	return Data([]byte(bjson.Encode(v))).
		Header("Content-Type", "application/json; charset=utf-8")
}

// HTML creates a text/html response.
func HTML(data []byte) *Response {
	return Data(data)
}

// WithStatus sets the status. Can be chained.
func (r *Response) WithStatus(status Status) *Response {
	r.status = status
	return r
}

// Header sets a header value. Can be chained.
func (r *Response) Header(key, value string) *Response {
	r.headers[key] = value
	return r
}

// Status returns the response status.
func (r *Response) Status() Status { return r.status }

// HeaderValue returns the value set under the given header key.
func (r *Response) HeaderValue(key string) string { return r.headers[key] }

// Body returns the raw body bytes.
func (r *Response) Body() []byte { return r.body }

// CORS holds the server-wide cross-origin allow-lists appended to every
// response.
type CORS struct {
	Origin  string
	Headers string
	Methods string
}

// DefaultCORSMethods is the allow-methods value used when none is configured.
const DefaultCORSMethods = "POST, PATCH, GET, OPTIONS, DELETE"

func (r *Response) applyCORS(c CORS) {
	if c.Origin == "" {
		return
	}

	methods := c.Methods
	if methods == "" {
		methods = DefaultCORSMethods
	}

	r.headers["Access-Control-Allow-Origin"] = c.Origin
	r.headers["Access-Control-Allow-Headers"] = c.Headers
	r.headers["Access-Control-Allow-Methods"] = methods
}

// encode builds the wire bytes: status line, headers in key-sorted order, a
// blank line, then the body.
func (r *Response) encode() []byte {
	out := []byte("HTTP/1.1 " + r.status.String() + "\r\n")

	keys := lo.Keys(r.headers)
	sort.Strings(keys)

	for _, k := range keys {
		out = append(out, k...)
		out = append(out, ": "...)
		out = append(out, r.headers[k]...)
		out = append(out, "\r\n"...)
	}

	out = append(out, "\r\n"...)
	out = append(out, r.body...)

	return out
}

// httpDate renders the Date header value from the fixed weekday and month
// name tables with zero-padded time-of-day fields.
func httpDate(t time.Time) string {
	weekday := weekdayNames[(int(t.Weekday())+6)%7]

	return fmt.Sprintf("%s, %d %s %d %02d:%02d:%02d GMT",
		weekday, t.Day(), monthNames[t.Month()-1], t.Year(),
		t.Hour(), t.Minute(), t.Second())
}

// errorResponse converts any surfaced error into a response. A [*Error]
// renders its configured status with the JSON envelope, or the message
// verbatim when overridden. Anything else maps to a generic 500 envelope.
func errorResponse(err error) *Response {
	routeErr, ok := asError(err)
	if !ok {
		routeErr = ServerError("internal server error")
	}

	if routeErr.Override() {
		resp := Data([]byte(routeErr.Message())).WithStatus(routeErr.Status())
		delete(resp.headers, "Content-Type")

		return resp
	}

	envelope := "{\"code\":\"" + strconv.Itoa(routeErr.Status().Code()) + "\"," +
		"\"message\":" + bjson.EncodeString(routeErr.Message()) + "}"

	return Data([]byte(envelope)).
		WithStatus(routeErr.Status()).
		Header("Content-Type", "application/json; charset=utf-8")
}
