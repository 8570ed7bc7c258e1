package data

import (
	"encoding/json"
	"sync"

	"github.com/orchestr8-platform/orchestr8/hostinfo"
	"github.com/orchestr8-platform/orchestr8/kube"
	dbmodel "github.com/orchestr8-platform/orchestr8/model"
)

// MockConnector implements the Connector interface against in-memory
// caches for testing the API layer without a database or cluster.
type MockConnector struct {
	CachedUsers   map[string]dbmodel.User
	CachedTokens  map[string]string
	CachedPods    map[string]dbmodel.Pod
	CachedVolumes map[string]dbmodel.Volume
	CachedPorts   map[string]string
	CachedGPUs    kube.GPUReport
	CachedStats   hostinfo.Stats
	RegistryToken string
	SearchResults json.RawMessage

	mu sync.Mutex
}
