package http

import (
	"context"
	"net/http"
)

type tokenContextKey struct{}

// ContextWithToken attaches a caller bearer token that outbound requests forward
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token attached by ContextWithToken
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok && token != ""
}

type authTransport struct {
	token     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	// A caller token wins over the service token
	token := t.token
	if ctxToken, ok := TokenFromContext(req.Context()); ok {
		token = ctxToken
	}

	if token != "" {
		reqCopy.Header.Set("Authorization", "Bearer "+token)
	}

	return t.transport.RoundTrip(reqCopy)
}

func WithAuthToken(token string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			token:     token,
			transport: rt,
		}
	})
}
