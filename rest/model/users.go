package model

import (
	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/pkg/errors"
)

// APIUser describes a registered user. Password material never crosses
// the API boundary.
type APIUser struct {
	Username  APIString `json:"username,omitempty"`
	Admin     bool      `json:"is_admin"`
	CreatedAt APITime   `json:"created_at"`
}

// Import transforms a User object into an APIUser object.
func (apiResult *APIUser) Import(i interface{}) error {
	switch u := i.(type) {
	case dbmodel.User:
		apiResult.Username = ToAPIString(u.ID)
		apiResult.Admin = u.Admin
		apiResult.CreatedAt = NewTime(u.CreatedAt)
	default:
		return errors.New("incorrect type when converting User type")
	}
	return nil
}
