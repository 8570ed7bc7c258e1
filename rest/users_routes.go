package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/rest/data"
	"github.com/pkg/errors"
)

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /login

type loginHandler struct {
	creds data.UserCredentials
	sc    data.Connector
}

func makeLogin(sc data.Connector) gimlet.RouteHandler {
	return &loginHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new loginHandler.
func (h *loginHandler) Factory() gimlet.RouteHandler {
	return &loginHandler{
		sc: h.sc,
	}
}

// Parse fetches the credentials from the request body.
func (h *loginHandler) Parse(_ context.Context, r *http.Request) error {
	return errors.Wrap(gimlet.GetJSON(r.Body, &h.creds), "problem reading credentials")
}

// Run calls LoginUser and returns the session token.
func (h *loginHandler) Run(ctx context.Context) gimlet.Responder {
	token, err := h.sc.LoginUser(ctx, h.creds)
	if err != nil {
		grip.Notice(message.WrapError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "POST",
			"route":   "/login",
			"user":    h.creds.Username,
		}))
		return gimlet.MakeJSONErrorResponder(err)
	}

	return gimlet.NewJSONResponse(&TokenResponse{Token: token})
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /register

type registerHandler struct {
	creds data.UserCredentials
	token string
	sc    data.Connector
}

func makeRegisterUser(sc data.Connector) gimlet.RouteHandler {
	return &registerHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new registerHandler.
func (h *registerHandler) Factory() gimlet.RouteHandler {
	return &registerHandler{
		sc: h.sc,
	}
}

// Parse fetches the credentials from the request body and the
// requester's session token from the header. The token is checked in
// the connector because the first registration is allowed without one.
func (h *registerHandler) Parse(_ context.Context, r *http.Request) error {
	h.token = r.Header.Get(orchestr8.AuthTokenHeader)
	return errors.Wrap(gimlet.GetJSON(r.Body, &h.creds), "problem reading credentials")
}

// Run calls RegisterUser and returns a session token for the new user.
func (h *registerHandler) Run(ctx context.Context) gimlet.Responder {
	token, err := h.sc.RegisterUser(ctx, h.creds, h.token)
	if err != nil {
		grip.Notice(message.WrapError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "POST",
			"route":   "/register",
			"user":    h.creds.Username,
		}))
		return gimlet.MakeJSONErrorResponder(err)
	}

	return gimlet.NewJSONResponse(&TokenResponse{Token: token})
}

///////////////////////////////////////////////////////////////////////////////
//
// DELETE /register

type deleteUserHandler struct {
	payload struct {
		ID string `json:"id"`
	}
	sc data.Connector
}

func makeDeleteUser(sc data.Connector) gimlet.RouteHandler {
	return &deleteUserHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new deleteUserHandler.
func (h *deleteUserHandler) Factory() gimlet.RouteHandler {
	return &deleteUserHandler{
		sc: h.sc,
	}
}

// Parse fetches the target user id from the request body.
func (h *deleteUserHandler) Parse(_ context.Context, r *http.Request) error {
	if err := gimlet.GetJSON(r.Body, &h.payload); err != nil {
		return errors.Wrap(err, "problem reading payload")
	}
	if h.payload.ID == "" {
		return errors.New("must specify a user id")
	}

	return nil
}

// Run calls RemoveUser.
func (h *deleteUserHandler) Run(ctx context.Context) gimlet.Responder {
	if err := h.sc.RemoveUser(ctx, h.payload.ID); err != nil {
		return gimlet.MakeJSONErrorResponder(err)
	}

	return gimlet.NewJSONResponse(struct {
		Removed string `json:"removed"`
	}{Removed: h.payload.ID})
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /users

type getUsersHandler struct {
	sc data.Connector
}

func makeGetUsers(sc data.Connector) gimlet.RouteHandler {
	return &getUsersHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new getUsersHandler.
func (h *getUsersHandler) Factory() gimlet.RouteHandler {
	return &getUsersHandler{
		sc: h.sc,
	}
}

// Parse is a no-op; the admin check happens in the middleware.
func (h *getUsersHandler) Parse(_ context.Context, _ *http.Request) error {
	return nil
}

// Run calls FindUsers and returns all accounts.
func (h *getUsersHandler) Run(ctx context.Context) gimlet.Responder {
	users, err := h.sc.FindUsers(ctx)
	if err != nil {
		return gimlet.MakeJSONErrorResponder(errors.Wrap(err, "problem getting users"))
	}

	return gimlet.NewJSONResponse(users)
}
