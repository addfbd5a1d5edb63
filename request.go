package bserve

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Method enumerates the request methods the engine matches on. Any is the
// wildcard: it is both the mapping for unrecognized verbs and the fallback
// bucket consulted when no exact-method route matches.
type Method int

const (
	Get Method = iota
	Post
	Put
	Patch
	Delete
	Options
	Any
)

var methodNames = map[string]Method{
	"GET":     Get,
	"POST":    Post,
	"PUT":     Put,
	"PATCH":   Patch,
	"DELETE":  Delete,
	"OPTIONS": Options,
	"ANY":     Any,
}

// MethodFor maps a wire verb onto a Method. Unrecognized verbs map to the
// wildcard rather than failing.
func MethodFor(verb string) Method {
	if m, ok := methodNames[verb]; ok {
		return m
	}

	return Any
}

func (m Method) String() string {
	switch m {
	case Get:
		return "GET"
	case Post:
		return "POST"
	case Put:
		return "PUT"
	case Patch:
		return "PATCH"
	case Delete:
		return "DELETE"
	case Options:
		return "OPTIONS"
	default:
		return "ANY"
	}
}

// Request is a framed request: the parsed request line, query, headers and
// classified body. It is constructed once per accepted connection and
// consumed by exactly one handler invocation.
type Request struct {
	Method  Method
	Path    string
	Query   map[string]string
	Headers map[string]string

	Body *Body

	// RemoteAddr is the client's address string.
	RemoteAddr string
}

// Header returns the header value under the given key. Keys were lower-cased
// during framing so lookups are case-insensitive.
func (r *Request) Header(key string) string {
	return r.Headers[strings.ToLower(key)]
}

// NormalizePath guarantees a leading slash and strips a single trailing slash
// unless the path is exactly "/". Registration and framing apply the same
// normalization so route lookup is plain string comparison.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}

	return p
}

// ReadRequest frames a request off a buffered connection: it accumulates the
// header block byte by byte until the blank-line boundary, parses the request
// line, query and headers, then reads and classifies a declared-length body.
func ReadRequest(br *bufio.Reader, remoteAddr string) (*Request, error) {
	head, err := readHeaderBlock(br)
	if err != nil {
		return nil, err
	}

	lines := headerLines(head)
	if len(lines) == 0 {
		return nil, errors.New("empty header block")
	}

	verb, target, ok := splitRequestLine(lines[0])
	if !ok {
		return nil, errors.Newf("malformed request line: %q", lines[0])
	}

	path, rawQuery, _ := strings.Cut(target, "?")

	req := &Request{
		Method:     MethodFor(verb),
		Path:       NormalizePath(path),
		Query:      parseQuery(rawQuery),
		Headers:    parseHeaders(lines[1:]),
		Body:       noBody(),
		RemoteAddr: remoteAddr,
	}

	if cl, ok := req.Headers["content-length"]; ok {
		n, _ := strconv.Atoi(cl)
		if n < 0 {
			n = 0
		}

		data := make([]byte, n)
		if _, err := io.ReadFull(br, data); err != nil {
			return nil, errors.Wrap(err, "read declared-length body")
		}

		req.Body = classifyBody(contentTypeOf(req.Headers), data)
	}

	return req, nil
}

// readHeaderBlock reads single bytes until four consecutive CR/LF bytes have
// been seen, the blank line that terminates the header section.
func readHeaderBlock(br *bufio.Reader) ([]byte, error) {
	var block []byte
	crlfRun := 0

	for crlfRun < 4 {
		c, err := br.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "read header block")
		}

		block = append(block, c)

		if c == '\r' || c == '\n' {
			crlfRun++
		} else {
			crlfRun = 0
		}
	}

	return block, nil
}

// headerLines splits the raw header block into lines, stopping at the first
// empty one.
func headerLines(block []byte) []string {
	var lines []string

	for _, line := range strings.Split(string(block), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}

		lines = append(lines, line)
	}

	return lines
}

func splitRequestLine(line string) (verb, target string, ok bool) {
	parts := strings.Split(line, " ")
	if len(parts) < 2 {
		return "", "", false
	}

	return parts[0], parts[1], true
}

// parseQuery splits the query string on '&', then each pair on '='. A missing
// value defaults to empty.
func parseQuery(rawQuery string) map[string]string {
	query := make(map[string]string)
	if rawQuery == "" {
		return query
	}

	for _, pair := range strings.Split(rawQuery, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if k == "" {
			continue
		}

		query[k] = v
	}

	return query
}

// parseHeaders splits each line on ": " into a lower-cased-key mapping.
// Lower-casing makes later header lookups case-insensitive.
func parseHeaders(lines []string) map[string]string {
	headers := make(map[string]string, len(lines))

	for _, line := range lines {
		k, v, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}

		headers[strings.ToLower(k)] = v
	}

	return headers
}

// contentTypeOf returns the content-type header with any ';'-delimited
// parameter suffix stripped.
func contentTypeOf(headers map[string]string) string {
	ct, _, _ := strings.Cut(headers["content-type"], ";")
	return strings.TrimSpace(ct)
}
