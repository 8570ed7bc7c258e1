package model

import (
	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/pkg/errors"
)

// APIPod describes a scheduled workload pod.
type APIPod struct {
	ID        APIString   `json:"id,omitempty"`
	Name      APIString   `json:"name,omitempty"`
	Image     APIString   `json:"container_image,omitempty"`
	CPU       APIString   `json:"cpu,omitempty"`
	Memory    APIString   `json:"memory,omitempty"`
	GPUs      int         `json:"gpu"`
	Port      int         `json:"port"`
	Env       []APIEnvVar `json:"env,omitempty"`
	UserID    APIString   `json:"user_id,omitempty"`
	VolumeID  APIString   `json:"storage_id,omitempty"`
	CreatedAt APITime     `json:"created_at"`
	Phase     APIString   `json:"phase,omitempty"`
}

// APIEnvVar is a single environment variable injected into a pod's
// container.
type APIEnvVar struct {
	Name  APIString `json:"name"`
	Value APIString `json:"value"`
}

// Import transforms a Pod object into an APIPod object.
func (apiResult *APIPod) Import(i interface{}) error {
	switch p := i.(type) {
	case dbmodel.Pod:
		apiResult.ID = ToAPIString(p.ID)
		apiResult.Name = ToAPIString(p.Name)
		apiResult.Image = ToAPIString(p.Image)
		apiResult.CPU = ToAPIString(p.CPU)
		apiResult.Memory = ToAPIString(p.Memory)
		apiResult.GPUs = p.GPUs
		apiResult.Port = p.Port
		apiResult.Env = getEnvVars(p.Env)
		apiResult.UserID = ToAPIString(p.UserID)
		apiResult.VolumeID = ToAPIString(p.VolumeID)
		apiResult.CreatedAt = NewTime(p.CreatedAt)
		apiResult.Phase = ToAPIString(p.Status.Phase)
	default:
		return errors.New("incorrect type when converting Pod type")
	}
	return nil
}

func getEnvVars(env []dbmodel.EnvVar) []APIEnvVar {
	if len(env) == 0 {
		return nil
	}

	vars := make([]APIEnvVar, len(env))
	for i, v := range env {
		vars[i] = APIEnvVar{
			Name:  ToAPIString(v.Name),
			Value: ToAPIString(v.Value),
		}
	}
	return vars
}
