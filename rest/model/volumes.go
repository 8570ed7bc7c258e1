package model

import (
	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/pkg/errors"
)

// APIVolume describes a persistent volume claim backing pod storage.
type APIVolume struct {
	ID        APIString `json:"id,omitempty"`
	Name      APIString `json:"name,omitempty"`
	Capacity  APIString `json:"capacity,omitempty"`
	UserID    APIString `json:"user_id,omitempty"`
	CreatedAt APITime   `json:"created_at"`
}

// Import transforms a Volume object into an APIVolume object.
func (apiResult *APIVolume) Import(i interface{}) error {
	switch v := i.(type) {
	case dbmodel.Volume:
		apiResult.ID = ToAPIString(v.ID)
		apiResult.Name = ToAPIString(v.Name)
		apiResult.Capacity = ToAPIString(v.Capacity)
		apiResult.UserID = ToAPIString(v.UserID)
		apiResult.CreatedAt = NewTime(v.CreatedAt)
	default:
		return errors.New("incorrect type when converting Volume type")
	}
	return nil
}
