package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orchestr8-platform/orchestr8/rest/data"
	"github.com/stretchr/testify/suite"
)

type userHandlerSuite struct {
	ctx context.Context
	sc  *data.MockConnector

	suite.Suite
}

func TestUserHandlerSuite(t *testing.T) {
	suite.Run(t, new(userHandlerSuite))
}

func (s *userHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.sc = &data.MockConnector{}
}

func (s *userHandlerSuite) jsonRequest(method, route string, payload interface{}) *http.Request {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	return httptest.NewRequest(method, route, bytes.NewReader(body))
}

func (s *userHandlerSuite) register(username, password, token string) string {
	h := makeRegisterUser(s.sc).Factory().(*registerHandler)
	req := s.jsonRequest(http.MethodPost, "/register", data.UserCredentials{Username: username, Password: password})
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	s.Require().NoError(h.Parse(s.ctx, req))

	resp := h.Run(s.ctx)
	s.Require().Equal(http.StatusOK, resp.Status())

	return resp.Data().(*TokenResponse).Token
}

func (s *userHandlerSuite) TestRegisterBootstrapsAdmin() {
	token := s.register("ada", "hunter2", "")
	s.NotEmpty(token)

	user, err := s.sc.ValidateToken(s.ctx, token)
	s.Require().NoError(err)
	s.True(user.Admin)
}

func (s *userHandlerSuite) TestRegisterWithoutAdminTokenFails() {
	s.register("ada", "hunter2", "")

	h := makeRegisterUser(s.sc).Factory().(*registerHandler)
	req := s.jsonRequest(http.MethodPost, "/register", data.UserCredentials{Username: "eve", Password: "p"})
	s.Require().NoError(h.Parse(s.ctx, req))

	resp := h.Run(s.ctx)
	s.Equal(http.StatusForbidden, resp.Status())
}

func (s *userHandlerSuite) TestLoginReturnsToken() {
	s.register("ada", "hunter2", "")

	h := makeLogin(s.sc).Factory().(*loginHandler)
	req := s.jsonRequest(http.MethodPost, "/login", data.UserCredentials{Username: "ada", Password: "hunter2"})
	s.Require().NoError(h.Parse(s.ctx, req))

	resp := h.Run(s.ctx)
	s.Require().Equal(http.StatusOK, resp.Status())
	s.NotEmpty(resp.Data().(*TokenResponse).Token)
}

func (s *userHandlerSuite) TestLoginWrongPassword() {
	s.register("ada", "hunter2", "")

	h := makeLogin(s.sc).Factory().(*loginHandler)
	req := s.jsonRequest(http.MethodPost, "/login", data.UserCredentials{Username: "ada", Password: "wrong"})
	s.Require().NoError(h.Parse(s.ctx, req))

	resp := h.Run(s.ctx)
	s.Equal(http.StatusForbidden, resp.Status())
}

func (s *userHandlerSuite) TestDeleteUser() {
	adminToken := s.register("ada", "hunter2", "")
	s.register("grace", "p", adminToken)

	h := makeDeleteUser(s.sc).Factory().(*deleteUserHandler)
	req := s.jsonRequest(http.MethodDelete, "/register", map[string]string{"id": "grace"})
	s.Require().NoError(h.Parse(s.ctx, req))

	resp := h.Run(s.ctx)
	s.Require().Equal(http.StatusOK, resp.Status())

	users, err := s.sc.FindUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *userHandlerSuite) TestDeleteUserRequiresID() {
	h := makeDeleteUser(s.sc).Factory().(*deleteUserHandler)
	req := s.jsonRequest(http.MethodDelete, "/register", map[string]string{})
	s.Error(h.Parse(s.ctx, req))
}

func (s *userHandlerSuite) TestGetUsers() {
	adminToken := s.register("ada", "hunter2", "")
	s.register("grace", "p", adminToken)

	h := makeGetUsers(s.sc).Factory().(*getUsersHandler)
	s.Require().NoError(h.Parse(s.ctx, nil))

	resp := h.Run(s.ctx)
	s.Require().Equal(http.StatusOK, resp.Status())
}
