package testutil

import (
	"net/http"
	"time"

	"council/pkg/domain"
	"council/pkg/requestcontext"
)

// WithActor stamps the request context with an actor identity, simulating
// what the actor middleware does for incoming requests.
func WithActor(req *http.Request, actor string) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), domain.Actor(actor))
	return req.WithContext(ctx)
}

// WithRequestTime pins the request clock so timestamps in the response are
// deterministic.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}

// WithRequestID sets a fixed correlation id on the request context.
func WithRequestID(req *http.Request, id string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), id)
	return req.WithContext(ctx)
}
