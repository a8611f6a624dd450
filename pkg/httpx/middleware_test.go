package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/registry/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

type testKey struct{}

func TestHeaderToContext(t *testing.T) {
	with := func(ctx context.Context, v string) context.Context {
		return context.WithValue(ctx, testKey{}, v)
	}

	var got any
	h := httpx.HeaderToContext("X-Test", with)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Context().Value(testKey{})
	}))

	t.Run("copies header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Test", "  value ")
		h.ServeHTTP(httptest.NewRecorder(), req)
		require.Equal(t, "value", got)
	})

	t.Run("missing header", func(t *testing.T) {
		got = nil
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Nil(t, got)
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteJSON(rec, http.StatusTeapot, map[string]string{"a": "b"})

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"a":"b"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Enabled bool `json:"enabled"`
	}

	decode := func(raw string) (body, error) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		err := httpx.DecodeJSON(httptest.NewRecorder(), req, &b)
		return b, err
	}

	b, err := decode(`{"enabled":true}`)
	require.NoError(t, err)
	require.True(t, b.Enabled)

	_, err = decode(`{"enabled":true,"extra":1}`)
	require.ErrorIs(t, err, httpx.ErrBadBody)

	_, err = decode(`{"enabled":true}{}`)
	require.ErrorIs(t, err, httpx.ErrBadBody)

	_, err = decode(``)
	require.ErrorIs(t, err, httpx.ErrBadBody)
}
