package data

import (
	"context"
	"encoding/json"

	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/orchestr8-platform/orchestr8/rest/model"
)

// Connector abstracts the link between the service and API layers,
// allowing for changes in the service architecture without forcing
// changes to the API.
type Connector interface {
	////////
	// Users
	////////
	// ValidateToken resolves a session token to its user, or returns an
	// error when the token is invalid, expired, or orphaned.
	ValidateToken(context.Context, string) (*dbmodel.User, error)
	// RegisterUser creates an account and returns a session token for
	// it. The first account ever created becomes an admin and requires
	// no credentials; every later registration requires an admin's
	// session token.
	RegisterUser(context.Context, UserCredentials, string) (string, error)
	// LoginUser checks a username and password and returns a fresh
	// session token. When no accounts exist the credentials bootstrap
	// the initial admin instead.
	LoginUser(context.Context, UserCredentials) (string, error)
	// RemoveUser deletes the account with the given username.
	RemoveUser(context.Context, string) error
	// FindUsers returns all registered accounts.
	FindUsers(context.Context) ([]model.APIUser, error)

	///////
	// Pods
	///////
	// CreatePod persists a pod, reserves its port, and submits the
	// generated manifest to the cluster.
	CreatePod(context.Context, PodOptions) (*model.APIPod, error)
	// FindPods returns the pods belonging to the given user.
	FindPods(context.Context, string) ([]model.APIPod, error)

	//////////
	// Volumes
	//////////
	// CreateVolume persists a volume and submits the generated claim
	// manifest to the cluster.
	CreateVolume(context.Context, VolumeOptions) (*model.APIVolume, error)
	// FindVolumes returns the volumes belonging to the given user.
	FindVolumes(context.Context, string) ([]model.APIVolume, error)

	//////////
	// Cluster
	//////////
	// GPUAvailability reports cluster-wide and per-node GPU capacity
	// against current allocations.
	GPUAvailability(context.Context) (*model.APIGPUReport, error)
	// HostStats returns a utilization snapshot for the service host.
	HostStats(context.Context) (*model.APIHostStats, error)

	//////////////////
	// Docker registry
	//////////////////
	// DockerToken fetches an anonymous registry auth token.
	DockerToken(context.Context) (string, error)
	// DockerSearchImage proxies an image search, forwarding the
	// caller's registry authorization header.
	DockerSearchImage(context.Context, string, string) (json.RawMessage, error)
}

// UserCredentials is the payload for the register and login operations.
type UserCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PodOptions describes the pod to create.
type PodOptions struct {
	Name     string           `json:"name"`
	Image    string           `json:"container_image"`
	CPU      string           `json:"cpu"`
	Memory   string           `json:"memory"`
	GPUs     int              `json:"gpu"`
	Port     int              `json:"port"`
	Protocol string           `json:"protocol"`
	Env      []dbmodel.EnvVar `json:"env"`
	VolumeID string           `json:"storage_id"`

	// UserID is taken from the authenticated request, never from the
	// payload.
	UserID string `json:"-"`
}

// VolumeOptions describes the volume to create.
type VolumeOptions struct {
	Name     string `json:"name"`
	Capacity string `json:"capacity"`

	UserID string `json:"-"`
}
