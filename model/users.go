package model

import (
	"context"
	"time"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/anser/db"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/orchestr8-platform/orchestr8"
)

const userCollection = "users"

// User stores an account with its credential hashes. The session key is
// never stored in the clear; tokens carry the key and the stored hash is
// checked on every authenticated request.
type User struct {
	ID             string     `bson:"_id"`
	HashedPassword string     `bson:"hashed_password"`
	Admin          bool       `bson:"is_admin"`
	CreatedAt      time.Time  `bson:"created_at"`
	LoginCache     LoginCache `bson:"login_cache"`

	env       orchestr8.Environment
	populated bool
}

var (
	dbUserIDKey             = bsonutil.MustHaveTag(User{}, "ID")
	dbUserHashedPasswordKey = bsonutil.MustHaveTag(User{}, "HashedPassword")
	dbUserAdminKey          = bsonutil.MustHaveTag(User{}, "Admin")
	dbUserCreatedAtKey      = bsonutil.MustHaveTag(User{}, "CreatedAt")
	dbUserLoginCacheKey     = bsonutil.MustHaveTag(User{}, "LoginCache")
)

type LoginCache struct {
	KeyHash string    `bson:"key_hash"`
	TTL     time.Time `bson:"ttl"`
}

var (
	loginCacheKeyHashKey = bsonutil.MustHaveTag(LoginCache{}, "KeyHash")
	loginCacheTTLKey     = bsonutil.MustHaveTag(LoginCache{}, "TTL")
)

// CreateUser builds a populated user with a freshly hashed password. The
// first user created in the system is expected to be made an admin by the
// caller, matching the bootstrap flow in register and login.
func CreateUser(username, password string, admin bool) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "problem hashing password")
	}

	return &User{
		ID:             username,
		HashedPassword: string(hash),
		Admin:          admin,
		CreatedAt:      time.Now(),
		populated:      true,
	}, nil
}

func (u *User) Setup(env orchestr8.Environment) { u.env = env }
func (u *User) IsNil() bool                     { return !u.populated }

func (u *User) Find(ctx context.Context) error {
	if u.env == nil {
		return errors.New("cannot find with a nil environment")
	}

	u.populated = false
	err := u.env.GetDB().Collection(userCollection).FindOne(ctx, bson.M{"_id": u.ID}).Decode(u)
	if db.ResultsNotFound(err) {
		return errors.Wrapf(err, "could not find user %s in the database", u.Username())
	} else if err != nil {
		return errors.Wrap(err, "problem finding user")
	}

	u.populated = true
	return nil
}

func (u *User) Save(ctx context.Context) error {
	if !u.populated {
		return errors.New("cannot save unpopulated user")
	}
	if u.env == nil {
		return errors.New("cannot save with a nil environment")
	}

	_, err := u.env.GetDB().Collection(userCollection).ReplaceOne(ctx,
		bson.M{"_id": u.ID}, u, options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "problem saving user %s", u.ID)
}

func (u *User) Remove(ctx context.Context) error {
	if u.env == nil {
		return errors.New("cannot remove with a nil environment")
	}

	_, err := u.env.GetDB().Collection(userCollection).DeleteOne(ctx, bson.M{"_id": u.ID})
	return errors.Wrapf(err, "problem removing user %s", u.ID)
}

// CheckPassword compares a clear text password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) == nil
}

// CheckSessionKey compares a session key recovered from a token against the
// stored hash, and enforces the login cache TTL.
func (u *User) CheckSessionKey(key string) bool {
	if u.LoginCache.KeyHash == "" {
		return false
	}
	if time.Since(u.LoginCache.TTL) > orchestr8.TokenExpireAfter {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(u.LoginCache.KeyHash), []byte(key)) == nil
}

// RotateSessionKey generates a new session key, stores its hash with a fresh
// TTL, and returns the key in the clear so it can be embedded in a token.
func (u *User) RotateSessionKey(ctx context.Context) (string, error) {
	if u.env == nil {
		return "", errors.New("cannot rotate a session key with a nil environment")
	}

	key := utility.RandomString()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "problem hashing session key")
	}

	u.LoginCache = LoginCache{KeyHash: string(hash), TTL: time.Now()}

	update := bson.M{"$set": bson.M{
		bsonutil.GetDottedKeyName(dbUserLoginCacheKey, loginCacheKeyHashKey): u.LoginCache.KeyHash,
		bsonutil.GetDottedKeyName(dbUserLoginCacheKey, loginCacheTTLKey):     u.LoginCache.TTL,
	}}
	if _, err = u.env.GetDB().Collection(userCollection).UpdateOne(ctx, bson.M{"_id": u.ID}, update); err != nil {
		return "", errors.Wrap(err, "problem updating login cache")
	}

	return key, nil
}

// gimlet.User interface

func (u *User) Email() string       { return "" }
func (u *User) Username() string    { return u.ID }
func (u *User) GetAPIKey() string   { return "" }
func (u *User) DisplayName() string { return u.ID }
func (u *User) Roles() []string {
	if u.Admin {
		return []string{"admin"}
	}
	return []string{}
}

// CountUsers returns the number of accounts in the system; the register and
// login flows use a zero count to trigger the admin bootstrap.
func CountUsers(ctx context.Context, env orchestr8.Environment) (int64, error) {
	count, err := env.GetDB().Collection(userCollection).CountDocuments(ctx, bson.M{})
	return count, errors.Wrap(err, "problem counting users")
}

// Users is a collection of user documents.
type Users struct {
	users     []User
	populated bool
}

func (u *Users) IsNil() bool   { return !u.populated }
func (u *Users) Slice() []User { return u.users }

func (u *Users) FindAll(ctx context.Context, env orchestr8.Environment) error {
	u.populated = false
	cur, err := env.GetDB().Collection(userCollection).Find(ctx, bson.M{})
	if err != nil {
		return errors.Wrap(err, "problem finding users")
	}
	if err = cur.All(ctx, &u.users); err != nil {
		return errors.Wrap(err, "problem decoding users")
	}
	u.populated = true

	return nil
}
