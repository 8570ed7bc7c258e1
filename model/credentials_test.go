package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := IssueSessionToken("secret", "alice", "sessionkey")
	require.NoError(t, err)
	require.NotZero(t, token)

	userID, key, err := ParseSessionToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
	assert.Equal(t, "sessionkey", key)
}

func TestSessionTokenRejectsBadSecret(t *testing.T) {
	token, err := IssueSessionToken("secret", "alice", "sessionkey")
	require.NoError(t, err)

	_, _, err = ParseSessionToken("wrong", token)
	assert.Error(t, err)
}

func TestSessionTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, _, err := ParseSessionToken("secret", token)
		assert.Error(t, err)
	}
}

func TestUserPasswordCheck(t *testing.T) {
	user, err := CreateUser("alice", "hunter2", false)
	require.NoError(t, err)
	require.False(t, user.IsNil())

	assert.True(t, user.CheckPassword("hunter2"))
	assert.False(t, user.CheckPassword("hunter3"))
	assert.NotEqual(t, "hunter2", user.HashedPassword)
}

func TestUserSessionKeyCheck(t *testing.T) {
	user, err := CreateUser("alice", "hunter2", true)
	require.NoError(t, err)

	// no key set yet
	assert.False(t, user.CheckSessionKey("anything"))

	// an expired cache entry fails even with a matching hash
	user.LoginCache = LoginCache{KeyHash: user.HashedPassword, TTL: time.Now().Add(-24 * time.Hour)}
	assert.False(t, user.CheckSessionKey("hunter2"))

	user.LoginCache.TTL = time.Now()
	assert.True(t, user.CheckSessionKey("hunter2"))
	assert.False(t, user.CheckSessionKey("wrong"))
}

func TestUserRoles(t *testing.T) {
	admin, err := CreateUser("root", "pw", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, admin.Roles())

	user, err := CreateUser("alice", "pw", false)
	require.NoError(t, err)
	assert.Empty(t, user.Roles())
	assert.Equal(t, "alice", user.Username())
	assert.Equal(t, "alice", user.DisplayName())
}
