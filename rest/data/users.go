package data

import (
	"context"
	"net/http"
	"sort"

	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/orchestr8-platform/orchestr8/rest/model"
	"github.com/pkg/errors"
)

// The auth failure message is deliberately uniform so responses do not
// leak whether a username exists.
const invalidCredentialsMessage = "invalid credentials"

func unauthenticatedError() gimlet.ErrorResponse {
	return gimlet.ErrorResponse{
		StatusCode: http.StatusUnauthorized,
		Message:    invalidCredentialsMessage,
	}
}

func forbiddenError() gimlet.ErrorResponse {
	return gimlet.ErrorResponse{
		StatusCode: http.StatusForbidden,
		Message:    invalidCredentialsMessage,
	}
}

/////////////////////////////
// DBConnector Implementation
/////////////////////////////

func (dbc *DBConnector) ValidateToken(ctx context.Context, token string) (*dbmodel.User, error) {
	user, err := dbmodel.ValidateSessionToken(ctx, dbc.env, token)
	if err != nil {
		return nil, unauthenticatedError()
	}

	return user, nil
}

func (dbc *DBConnector) RegisterUser(ctx context.Context, creds UserCredentials, token string) (string, error) {
	if creds.Username == "" || creds.Password == "" {
		return "", gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "must specify a username and password",
		}
	}

	count, err := dbmodel.CountUsers(ctx, dbc.env)
	if err != nil {
		return "", errors.Wrap(err, "problem counting users")
	}

	// The very first account bootstraps the admin; every later
	// registration must be performed by an admin.
	admin := count == 0
	if !admin {
		requester, err := dbmodel.ValidateSessionToken(ctx, dbc.env, token)
		if err != nil || !requester.Admin {
			return "", forbiddenError()
		}
	}

	existing := &dbmodel.User{ID: creds.Username}
	existing.Setup(dbc.env)
	if err := existing.Find(ctx); err == nil {
		return "", gimlet.ErrorResponse{
			StatusCode: http.StatusConflict,
			Message:    "username is already taken",
		}
	}

	user, err := dbmodel.CreateUser(creds.Username, creds.Password, admin)
	if err != nil {
		return "", errors.Wrap(err, "problem creating user")
	}
	user.Setup(dbc.env)
	if err = user.Save(ctx); err != nil {
		return "", errors.Wrap(err, "problem saving user")
	}

	return dbc.issueToken(ctx, user)
}

func (dbc *DBConnector) LoginUser(ctx context.Context, creds UserCredentials) (string, error) {
	user := &dbmodel.User{ID: creds.Username}
	user.Setup(dbc.env)
	if err := user.Find(ctx); err != nil {
		count, countErr := dbmodel.CountUsers(ctx, dbc.env)
		if countErr != nil {
			return "", errors.Wrap(countErr, "problem counting users")
		}
		if count == 0 {
			// An empty system treats the first login as the
			// admin bootstrap.
			return dbc.RegisterUser(ctx, creds, "")
		}

		return "", forbiddenError()
	}

	if !user.CheckPassword(creds.Password) {
		return "", forbiddenError()
	}

	return dbc.issueToken(ctx, user)
}

func (dbc *DBConnector) issueToken(ctx context.Context, user *dbmodel.User) (string, error) {
	key, err := user.RotateSessionKey(ctx)
	if err != nil {
		return "", errors.Wrap(err, "problem rotating session key")
	}

	token, err := dbmodel.IssueSessionToken(dbc.env.GetConf().SecretKey, user.ID, key)
	return token, errors.Wrap(err, "problem issuing session token")
}

func (dbc *DBConnector) RemoveUser(ctx context.Context, username string) error {
	user := &dbmodel.User{ID: username}
	user.Setup(dbc.env)
	if err := user.Find(ctx); err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    errors.Wrapf(err, "user '%s' not found", username).Error(),
		}
	}

	return errors.Wrapf(user.Remove(ctx), "problem removing user '%s'", username)
}

func (dbc *DBConnector) FindUsers(ctx context.Context) ([]model.APIUser, error) {
	users := &dbmodel.Users{}
	if err := users.FindAll(ctx, dbc.env); err != nil {
		return nil, errors.Wrap(err, "problem finding users")
	}

	return exportUsers(users.Slice())
}

///////////////////////////////
// MockConnector Implementation
///////////////////////////////

func (mc *MockConnector) ValidateToken(_ context.Context, token string) (*dbmodel.User, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	username, ok := mc.CachedTokens[token]
	if !ok {
		return nil, unauthenticatedError()
	}
	user, ok := mc.CachedUsers[username]
	if !ok {
		return nil, unauthenticatedError()
	}

	return &user, nil
}

func (mc *MockConnector) RegisterUser(_ context.Context, creds UserCredentials, token string) (string, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return mc.registerUser(creds, token)
}

func (mc *MockConnector) registerUser(creds UserCredentials, token string) (string, error) {
	if creds.Username == "" || creds.Password == "" {
		return "", gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "must specify a username and password",
		}
	}

	admin := len(mc.CachedUsers) == 0
	if !admin {
		requester, ok := mc.CachedUsers[mc.CachedTokens[token]]
		if !ok || !requester.Admin {
			return "", forbiddenError()
		}
	}

	id := creds.Username
	if _, ok := mc.CachedUsers[id]; ok {
		return "", gimlet.ErrorResponse{
			StatusCode: http.StatusConflict,
			Message:    "username is already taken",
		}
	}

	user, err := dbmodel.CreateUser(creds.Username, creds.Password, admin)
	if err != nil {
		return "", errors.Wrap(err, "problem creating user")
	}
	if mc.CachedUsers == nil {
		mc.CachedUsers = map[string]dbmodel.User{}
	}
	mc.CachedUsers[user.ID] = *user

	return mc.issueToken(user.ID), nil
}

func (mc *MockConnector) issueToken(username string) string {
	token := utility.RandomString()
	if mc.CachedTokens == nil {
		mc.CachedTokens = map[string]string{}
	}
	mc.CachedTokens[token] = username

	return token
}

func (mc *MockConnector) LoginUser(_ context.Context, creds UserCredentials) (string, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	user, ok := mc.CachedUsers[creds.Username]
	if !ok {
		if len(mc.CachedUsers) == 0 {
			return mc.registerUser(creds, "")
		}

		return "", forbiddenError()
	}

	if !user.CheckPassword(creds.Password) {
		return "", forbiddenError()
	}

	return mc.issueToken(user.ID), nil
}

func (mc *MockConnector) RemoveUser(_ context.Context, username string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, ok := mc.CachedUsers[username]; !ok {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    errors.Errorf("user '%s' not found", username).Error(),
		}
	}
	delete(mc.CachedUsers, username)

	return nil
}

func (mc *MockConnector) FindUsers(_ context.Context) ([]model.APIUser, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	users := make([]dbmodel.User, 0, len(mc.CachedUsers))
	for _, user := range mc.CachedUsers {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return exportUsers(users)
}

func exportUsers(users []dbmodel.User) ([]model.APIUser, error) {
	apiUsers := make([]model.APIUser, len(users))
	for i, user := range users {
		if err := apiUsers[i].Import(user); err != nil {
			return nil, errors.Wrap(err, "corrupt user record")
		}
	}

	return apiUsers, nil
}
