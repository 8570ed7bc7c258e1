package model

import (
	"github.com/orchestr8-platform/orchestr8/hostinfo"
	"github.com/pkg/errors"
)

// APIHostStats is the host utilization snapshot returned by the stat
// route.
type APIHostStats struct {
	CPU  APIUsage      `json:"cpu"`
	RAM  APIUsage      `json:"ram"`
	Disk APIUsage      `json:"disk"`
	GPU  []APIGPUUsage `json:"gpu"`
}

type APIUsage struct {
	Used float64 `json:"used"`
	Free float64 `json:"free"`
}

type APIGPUUsage struct {
	Load   float64 `json:"load"`
	Memory float64 `json:"memory"`
}

// Import transforms a hostinfo.Stats object into an APIHostStats object.
func (apiResult *APIHostStats) Import(i interface{}) error {
	switch s := i.(type) {
	case hostinfo.Stats:
		apiResult.CPU = APIUsage(s.CPU)
		apiResult.RAM = APIUsage(s.RAM)
		apiResult.Disk = APIUsage(s.Disk)
		apiResult.GPU = make([]APIGPUUsage, len(s.GPU))
		for idx, gpu := range s.GPU {
			apiResult.GPU[idx] = APIGPUUsage(gpu)
		}
	default:
		return errors.New("incorrect type when converting host stats type")
	}
	return nil
}
