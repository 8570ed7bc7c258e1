package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/orchestr8-platform/orchestr8"
	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/orchestr8-platform/orchestr8/rest/data"
)

type requestUserKey int

const requestUser requestUserKey = 0

// GetUser returns the authenticated user attached to the request
// context by the authentication middleware, or nil.
func GetUser(ctx context.Context) *dbmodel.User {
	user, _ := ctx.Value(requestUser).(*dbmodel.User)
	return user
}

type authenticationMiddleware struct {
	sc data.Connector
}

// NewAuthenticationMiddleware returns an implementation of
// gimlet.Middleware that resolves the session token carried in the
// Authorization header to a user and attaches it to the request
// context. Requests without a valid token are rejected.
func NewAuthenticationMiddleware(sc data.Connector) gimlet.Middleware {
	return &authenticationMiddleware{sc: sc}
}

func (m *authenticationMiddleware) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	ctx := r.Context()

	token := r.Header.Get(orchestr8.AuthTokenHeader)
	if token == "" {
		gimlet.WriteResponse(rw, gimlet.MakeTextErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusUnauthorized,
			Message:    "no session token",
		}))
		return
	}

	user, err := m.sc.ValidateToken(ctx, token)
	if err != nil {
		gimlet.WriteResponse(rw, gimlet.MakeJSONErrorResponder(err))
		return
	}

	next(rw, r.WithContext(context.WithValue(ctx, requestUser, user)))
}

type adminRequiredMiddleware struct{}

// NewAdminRequiredMiddleware returns an implementation of
// gimlet.Middleware that rejects requests from non-admin users. It must
// run after the authentication middleware.
func NewAdminRequiredMiddleware() gimlet.Middleware {
	return &adminRequiredMiddleware{}
}

func (m *adminRequiredMiddleware) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	user := GetUser(r.Context())
	if user == nil || !user.Admin {
		gimlet.WriteResponse(rw, gimlet.MakeTextErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusForbidden,
			Message:    "invalid credentials",
		}))
		return
	}

	next(rw, r)
}
