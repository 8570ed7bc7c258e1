package model

import (
	"context"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"

	"github.com/orchestr8-platform/orchestr8"
)

const (
	sessionClaimUserID = "id"
	sessionClaimKey    = "key"
)

// IssueSessionToken signs a token carrying the user id and an opaque session
// key. The key's hash is stored on the user document; see
// User.RotateSessionKey.
func IssueSessionToken(secret, userID, key string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		sessionClaimUserID: userID,
		sessionClaimKey:    key,
	})

	signed, err := token.SignedString([]byte(secret))
	return signed, errors.Wrap(err, "problem signing session token")
}

// ParseSessionToken validates the token signature and extracts the user id
// and session key claims.
func ParseSessionToken(secret, token string) (string, string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method '%v'", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", errors.Wrap(err, "problem parsing session token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", "", errors.New("invalid session token")
	}

	userID, ok := claims[sessionClaimUserID].(string)
	if !ok || userID == "" {
		return "", "", errors.New("session token has no user id")
	}
	key, ok := claims[sessionClaimKey].(string)
	if !ok || key == "" {
		return "", "", errors.New("session token has no session key")
	}

	return userID, key, nil
}

// ValidateSessionToken resolves a token to its user, checking the signature,
// the stored session key hash, and the login cache TTL.
func ValidateSessionToken(ctx context.Context, env orchestr8.Environment, token string) (*User, error) {
	conf := env.GetConf()
	if conf == nil {
		return nil, errors.New("environment is not configured")
	}

	userID, key, err := ParseSessionToken(conf.SecretKey, token)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	user := &User{ID: userID}
	user.Setup(env)
	if err := user.Find(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	if !user.CheckSessionKey(key) {
		return nil, errors.New("invalid credentials")
	}

	return user, nil
}
