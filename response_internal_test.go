package bserve

import (
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func pinNow(t *testing.T, fixed time.Time) {
	t.Helper()

	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })
}

func TestResponseEncode(t *testing.T) {
	pinNow(t, time.Date(2024, time.March, 9, 14, 5, 2, 0, time.UTC))

	wire := string(String("hello").encode())

	require.Equal(t, "HTTP/1.1 200 OK\r\n"+
		"Connection: close\r\n"+
		"Content-Length: 5\r\n"+
		"Content-Type: text/plain\r\n"+
		"Date: Sat, 9 Mar 2024 14:05:02 GMT\r\n"+
		"\r\n"+
		"hello", wire)
}

func TestResponseEncodeEmpty(t *testing.T) {
	wire := string(NewResponse().encode())
	require.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", wire)
}

func TestResponseHeadersSortedDeterministically(t *testing.T) {
	resp := NewResponse().
		Header("Zulu", "z").
		Header("Alpha", "a").
		Header("Mike", "m")

	wire := string(resp.encode())
	require.Less(t, strings.Index(wire, "Alpha"), strings.Index(wire, "Mike"))
	require.Less(t, strings.Index(wire, "Mike"), strings.Index(wire, "Zulu"))
	require.Equal(t, wire, string(resp.encode()))
}

func TestResponseWithStatus(t *testing.T) {
	wire := string(NewResponse().WithStatus(StatusCreated).encode())
	require.True(t, strings.HasPrefix(wire, "HTTP/1.1 201 Created\r\n"))
}

func TestHTTPDate(t *testing.T) {
	for _, tt := range []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "Mon, 1 Jan 2024 00:00:00 GMT"},
		{time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC), "Sun, 31 Dec 2023 23:59:59 GMT"},
		{time.Date(2024, time.July, 4, 9, 8, 7, 0, time.UTC), "Thu, 4 Jul 2024 09:08:07 GMT"},
	} {
		require.Equal(t, tt.want, httpDate(tt.in))
	}
}

func TestApplyCORS(t *testing.T) {
	resp := NewResponse()
	resp.applyCORS(CORS{Origin: "*", Headers: "Content-Type"})

	require.Equal(t, "*", resp.HeaderValue("Access-Control-Allow-Origin"))
	require.Equal(t, "Content-Type", resp.HeaderValue("Access-Control-Allow-Headers"))
	require.Equal(t, DefaultCORSMethods, resp.HeaderValue("Access-Control-Allow-Methods"))
}

func TestApplyCORSCustomMethods(t *testing.T) {
	resp := NewResponse()
	resp.applyCORS(CORS{Origin: "https://app.example.com", Methods: "GET"})

	require.Equal(t, "GET", resp.HeaderValue("Access-Control-Allow-Methods"))
}

func TestApplyCORSDisabledWithoutOrigin(t *testing.T) {
	resp := NewResponse()
	resp.applyCORS(CORS{Headers: "Content-Type"})

	require.Equal(t, "", resp.HeaderValue("Access-Control-Allow-Origin"))
	require.Equal(t, "", resp.HeaderValue("Access-Control-Allow-Methods"))
}

func TestErrorResponseEnvelope(t *testing.T) {
	resp := errorResponse(NotFound("no such user"))

	require.Equal(t, StatusNotFound, resp.Status())
	require.Equal(t, "application/json; charset=utf-8", resp.HeaderValue("Content-Type"))
	require.Equal(t, `{"code":"404","message":"no such user"}`, string(resp.Body()))
}

func TestErrorResponseEscapesMessage(t *testing.T) {
	resp := errorResponse(BadRequest(`bad "name" field`))
	require.Equal(t, `{"code":"400","message":"bad \"name\" field"}`, string(resp.Body()))
}

func TestErrorResponseVerbatim(t *testing.T) {
	resp := errorResponse(Verbatim(StatusTeapot, "<html>short and stout</html>"))

	require.Equal(t, StatusTeapot, resp.Status())
	require.Equal(t, "<html>short and stout</html>", string(resp.Body()))

	// The message is sent as-is: no envelope and no forced content type.
	require.Equal(t, "", resp.HeaderValue("Content-Type"))
	require.Equal(t, "28", resp.HeaderValue("Content-Length"))
}

func TestErrorResponseWrapped(t *testing.T) {
	wrapped := errors.Wrap(Conflict("duplicate email"), "creating user")
	resp := errorResponse(wrapped)

	require.Equal(t, StatusConflict, resp.Status())
	require.Contains(t, string(resp.Body()), "duplicate email")
}

func TestErrorResponseOpaque(t *testing.T) {
	resp := errorResponse(errors.New("sql: connection refused"))

	require.Equal(t, StatusInternalServerError, resp.Status())
	require.NotContains(t, string(resp.Body()), "sql")
	require.Equal(t, `{"code":"500","message":"internal server error"}`, string(resp.Body()))
}
