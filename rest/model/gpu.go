package model

import (
	"github.com/orchestr8-platform/orchestr8/kube"
	"github.com/pkg/errors"
)

// APIGPUReport describes cluster-wide and per-node GPU availability.
type APIGPUReport struct {
	Cluster APIGPUSummary `json:"cluster"`
	Nodes   []APINodeGPUs `json:"nodes"`
}

type APIGPUSummary struct {
	Total     int `json:"total"`
	Allocated int `json:"allocated"`
	Available int `json:"available"`
}

type APINodeGPUs struct {
	Node string `json:"node"`
	APIGPUSummary
}

// Import transforms a kube.GPUReport object into an APIGPUReport object.
func (apiResult *APIGPUReport) Import(i interface{}) error {
	switch r := i.(type) {
	case kube.GPUReport:
		apiResult.Cluster = APIGPUSummary(r.Cluster)
		apiResult.Nodes = make([]APINodeGPUs, len(r.Nodes))
		for idx, node := range r.Nodes {
			apiResult.Nodes[idx] = APINodeGPUs{
				Node:          node.Node,
				APIGPUSummary: APIGPUSummary(node.GPUSummary),
			}
		}
	default:
		return errors.New("incorrect type when converting GPU report type")
	}
	return nil
}
