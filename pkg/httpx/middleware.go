package httpx

import (
	"context"
	"net/http"
	"strings"
)

// Middleware wraps an http.Handler with extra behaviour.
type Middleware func(http.Handler) http.Handler

// Chain applies mws to h so that the first middleware is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// HeaderToContext copies the trimmed value of header into the request
// context using with. Requests without the header pass through untouched.
func HeaderToContext(header string, with func(context.Context, string) context.Context) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
				r = r.WithContext(with(r.Context(), v))
			}
			next.ServeHTTP(w, r)
		})
	}
}
