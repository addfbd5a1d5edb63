package bserve_test

import (
	"testing"

	"github.com/advdv/bserve"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	for _, tt := range []struct {
		err  *bserve.Error
		want bserve.Status
	}{
		{bserve.BadRequest("x"), bserve.StatusBadRequest},
		{bserve.Unauthorized("x"), bserve.StatusUnauthorized},
		{bserve.Forbidden("x"), bserve.StatusForbidden},
		{bserve.NotFound("x"), bserve.StatusNotFound},
		{bserve.Conflict("x"), bserve.StatusConflict},
		{bserve.ServerError("x"), bserve.StatusInternalServerError},
		{bserve.NewError(bserve.StatusGone, "x"), bserve.StatusGone},
	} {
		require.Equal(t, tt.want, tt.err.Status())
		require.Equal(t, "x", tt.err.Message())
		require.False(t, tt.err.Override())
	}
}

func TestErrorMessage(t *testing.T) {
	err := bserve.NotFound("no such user")
	require.Equal(t, "404 Not Found: no such user", err.Error())
}

func TestVerbatim(t *testing.T) {
	err := bserve.Verbatim(bserve.StatusServiceUnavailable, "come back later")
	require.True(t, err.Override())
	require.Equal(t, "come back later", err.Message())
	require.Equal(t, bserve.StatusServiceUnavailable, err.Status())
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, bserve.StatusConflict, bserve.StatusOf(bserve.Conflict("dup")))
	require.Equal(t, bserve.Status(0), bserve.StatusOf(errors.New("opaque")))
	require.Equal(t, bserve.StatusNotFound,
		bserve.StatusOf(errors.Wrap(bserve.NotFound("gone"), "loading profile")))
}

func TestStatusStrings(t *testing.T) {
	require.Equal(t, 404, bserve.StatusNotFound.Code())
	require.Equal(t, "Not Found", bserve.StatusNotFound.Reason())
	require.Equal(t, "404 Not Found", bserve.StatusNotFound.String())
	require.Equal(t, "Unknown", bserve.Status(799).Reason())
}
