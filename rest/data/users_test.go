package data

import (
	"context"
	"net/http"
	"testing"

	"github.com/evergreen-ci/gimlet"
	"github.com/stretchr/testify/suite"
)

type userConnectorSuite struct {
	ctx    context.Context
	cancel context.CancelFunc
	sc     *MockConnector

	suite.Suite
}

func TestUserConnectorSuiteMock(t *testing.T) {
	suite.Run(t, new(userConnectorSuite))
}

func (s *userConnectorSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.sc = &MockConnector{}
}

func (s *userConnectorSuite) TearDownTest() {
	s.cancel()
}

func (s *userConnectorSuite) TestFirstRegistrationBootstrapsAdmin() {
	token, err := s.sc.RegisterUser(s.ctx, UserCredentials{Username: "ada", Password: "hunter2"}, "")
	s.Require().NoError(err)
	s.NotEmpty(token)

	user, err := s.sc.ValidateToken(s.ctx, token)
	s.Require().NoError(err)
	s.Equal("ada", user.ID)
	s.True(user.Admin)
}

func (s *userConnectorSuite) TestRegistrationRequiresAdminToken() {
	adminToken, err := s.sc.RegisterUser(s.ctx, UserCredentials{Username: "ada", Password: "hunter2"}, "")
	s.Require().NoError(err)

	_, err = s.sc.RegisterUser(s.ctx, UserCredentials{Username: "eve", Password: "p"}, "bogus")
	s.Require().Error(err)
	resp, ok := err.(gimlet.ErrorResponse)
	s.Require().True(ok)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	userToken, err := s.sc.RegisterUser(s.ctx, UserCredentials{Username: "grace", Password: "p"}, adminToken)
	s.Require().NoError(err)

	user, err := s.sc.ValidateToken(s.ctx, userToken)
	s.Require().NoError(err)
	s.False(user.Admin)

	// non-admins cannot register others
	_, err = s.sc.RegisterUser(s.ctx, UserCredentials{Username: "eve", Password: "p"}, userToken)
	s.Error(err)
}

func (s *userConnectorSuite) TestDuplicateUsernameRejected() {
	token, err := s.sc.RegisterUser(s.ctx, UserCredentials{Username: "ada", Password: "hunter2"}, "")
	s.Require().NoError(err)

	_, err = s.sc.RegisterUser(s.ctx, UserCredentials{Username: "ada", Password: "other"}, token)
	s.Require().Error(err)
	resp, ok := err.(gimlet.ErrorResponse)
	s.Require().True(ok)
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *userConnectorSuite) TestMissingCredentialsRejected() {
	_, err := s.sc.RegisterUser(s.ctx, UserCredentials{}, "")
	s.Require().Error(err)
	resp, ok := err.(gimlet.ErrorResponse)
	s.Require().True(ok)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *userConnectorSuite) TestLoginBootstrapsOnEmptySystem() {
	token, err := s.sc.LoginUser(s.ctx, UserCredentials{Username: "ada", Password: "hunter2"})
	s.Require().NoError(err)

	user, err := s.sc.ValidateToken(s.ctx, token)
	s.Require().NoError(err)
	s.True(user.Admin)
}

func (s *userConnectorSuite) TestLoginChecksPassword() {
	_, err := s.sc.RegisterUser(s.ctx, UserCredentials{Username: "ada", Password: "hunter2"}, "")
	s.Require().NoError(err)

	_, err = s.sc.LoginUser(s.ctx, UserCredentials{Username: "ada", Password: "wrong"})
	s.Require().Error(err)

	token, err := s.sc.LoginUser(s.ctx, UserCredentials{Username: "ada", Password: "hunter2"})
	s.Require().NoError(err)
	s.NotEmpty(token)
}

func (s *userConnectorSuite) TestLoginUnknownUserRejected() {
	_, err := s.sc.RegisterUser(s.ctx, UserCredentials{Username: "ada", Password: "hunter2"}, "")
	s.Require().NoError(err)

	_, err = s.sc.LoginUser(s.ctx, UserCredentials{Username: "eve", Password: "p"})
	s.Error(err)
}

func (s *userConnectorSuite) TestRemoveUser() {
	token, err := s.sc.RegisterUser(s.ctx, UserCredentials{Username: "ada", Password: "hunter2"}, "")
	s.Require().NoError(err)
	_, err = s.sc.RegisterUser(s.ctx, UserCredentials{Username: "grace", Password: "p"}, token)
	s.Require().NoError(err)

	s.NoError(s.sc.RemoveUser(s.ctx, "grace"))
	s.Error(s.sc.RemoveUser(s.ctx, "grace"))

	users, err := s.sc.FindUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
}

func (s *userConnectorSuite) TestValidateTokenRejectsGarbage() {
	_, err := s.sc.ValidateToken(s.ctx, "not-a-token")
	s.Require().Error(err)
	resp, ok := err.(gimlet.ErrorResponse)
	s.Require().True(ok)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
