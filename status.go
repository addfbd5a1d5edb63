package bserve

import "strconv"

// Status is an HTTP status from the closed set the engine exposes to
// handlers. The numeric value is the wire code.
type Status int

const (
	StatusOK               Status = 200
	StatusCreated          Status = 201
	StatusAccepted         Status = 202
	StatusNonAuthoritative Status = 203
	StatusNoContent        Status = 204
	StatusResetContent     Status = 205
	StatusPartialContent   Status = 206

	StatusMultipleChoices   Status = 300
	StatusMovedPermanently  Status = 301
	StatusFound             Status = 302
	StatusSeeOther          Status = 303
	StatusNotModified       Status = 304
	StatusTemporaryRedirect Status = 307
	StatusPermanentRedirect Status = 308

	StatusBadRequest            Status = 400
	StatusUnauthorized          Status = 401
	StatusPaymentRequired       Status = 402
	StatusForbidden             Status = 403
	StatusNotFound              Status = 404
	StatusMethodNotAllowed      Status = 405
	StatusNotAcceptable         Status = 406
	StatusRequestTimeout        Status = 408
	StatusConflict              Status = 409
	StatusGone                  Status = 410
	StatusLengthRequired        Status = 411
	StatusPreconditionFailed    Status = 412
	StatusPayloadTooLarge       Status = 413
	StatusURITooLong            Status = 414
	StatusUnsupportedMediaType  Status = 415
	StatusRangeNotSatisfiable   Status = 416
	StatusExpectationFailed     Status = 417
	StatusTeapot                Status = 418
	StatusTooEarly              Status = 425
	StatusPreconditionRequired  Status = 428
	StatusTooManyRequests       Status = 429

	StatusInternalServerError     Status = 500
	StatusNotImplemented          Status = 501
	StatusBadGateway              Status = 502
	StatusServiceUnavailable      Status = 503
	StatusGatewayTimeout          Status = 504
	StatusHTTPVersionNotSupported Status = 505
)

var reasonPhrases = map[Status]string{
	StatusOK:               "OK",
	StatusCreated:          "Created",
	StatusAccepted:         "Accepted",
	StatusNonAuthoritative: "Non-Authoritative Information",
	StatusNoContent:        "No Content",
	StatusResetContent:     "Reset Content",
	StatusPartialContent:   "Partial Content",

	StatusMultipleChoices:   "Multiple Choices",
	StatusMovedPermanently:  "Moved Permanently",
	StatusFound:             "Found",
	StatusSeeOther:          "See Other",
	StatusNotModified:       "Not Modified",
	StatusTemporaryRedirect: "Temporary Redirect",
	StatusPermanentRedirect: "Permanent Redirect",

	StatusBadRequest:           "Bad Request",
	StatusUnauthorized:         "Unauthorized",
	StatusPaymentRequired:      "Payment Required",
	StatusForbidden:            "Forbidden",
	StatusNotFound:             "Not Found",
	StatusMethodNotAllowed:     "Method Not Allowed",
	StatusNotAcceptable:        "Not Acceptable",
	StatusRequestTimeout:       "Request Timeout",
	StatusConflict:             "Conflict",
	StatusGone:                 "Gone",
	StatusLengthRequired:       "Length Required",
	StatusPreconditionFailed:   "Precondition Failed",
	StatusPayloadTooLarge:      "Payload Too Large",
	StatusURITooLong:           "URI Too Long",
	StatusUnsupportedMediaType: "Unsupported Media Type",
	StatusRangeNotSatisfiable:  "Range Not Satisfiable",
	StatusExpectationFailed:    "Expectation Failed",
	StatusTeapot:               "I'm a teapot",
	StatusTooEarly:             "Too Early",
	StatusPreconditionRequired: "Precondition Required",
	StatusTooManyRequests:      "Too Many Requests",

	StatusInternalServerError:     "Internal Server Error",
	StatusNotImplemented:          "Not Implemented",
	StatusBadGateway:              "Bad Gateway",
	StatusServiceUnavailable:      "Service Unavailable",
	StatusGatewayTimeout:          "Gateway Timeout",
	StatusHTTPVersionNotSupported: "HTTP Version Not Supported",
}

// Code returns the numeric wire code.
func (s Status) Code() int { return int(s) }

// Reason returns the reason phrase, or "Unknown" for a status outside the
// closed set.
func (s Status) Reason() string {
	if r, ok := reasonPhrases[s]; ok {
		return r
	}

	return "Unknown"
}

// String renders the status-line form, e.g. "404 Not Found".
func (s Status) String() string {
	return strconv.Itoa(int(s)) + " " + s.Reason()
}
