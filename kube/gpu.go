package kube

import (
	"context"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"

	"github.com/orchestr8-platform/orchestr8"
)

// GPUSummary totals GPU capacity across a scope.
type GPUSummary struct {
	Total     int `json:"total"`
	Allocated int `json:"allocated"`
	Available int `json:"available"`
}

// NodeGPUInfo is the per-node breakdown of GPU capacity.
type NodeGPUInfo struct {
	Node string `json:"node"`
	GPUSummary
}

// GPUReport describes cluster-wide and per-node GPU availability.
type GPUReport struct {
	Cluster GPUSummary    `json:"cluster"`
	Nodes   []NodeGPUInfo `json:"nodes"`
}

// ComputeGPUReport accounts allocated GPUs per node against advertised
// capacity. Only nodes advertising the GPU resource are reported.
func ComputeGPUReport(nodes *corev1.NodeList, pods *corev1.PodList) GPUReport {
	resourceName := corev1.ResourceName(orchestr8.GPUResourceName)

	allocated := map[string]int{}
	for _, pod := range pods.Items {
		if pod.Spec.NodeName == "" {
			continue
		}
		for _, container := range pod.Spec.Containers {
			req, ok := container.Resources.Requests[resourceName]
			if !ok {
				req, ok = container.Resources.Limits[resourceName]
			}
			if ok {
				allocated[pod.Spec.NodeName] += int(req.Value())
			}
		}
	}

	report := GPUReport{Nodes: []NodeGPUInfo{}}
	for _, node := range nodes.Items {
		capacity, ok := node.Status.Capacity[resourceName]
		if !ok || capacity.IsZero() {
			continue
		}

		info := NodeGPUInfo{Node: node.Name}
		info.Total = int(capacity.Value())
		info.Allocated = allocated[node.Name]
		info.Available = info.Total - info.Allocated

		report.Cluster.Total += info.Total
		report.Cluster.Allocated += info.Allocated
		report.Nodes = append(report.Nodes, info)
	}
	report.Cluster.Available = report.Cluster.Total - report.Cluster.Allocated

	return report
}

// GPUAvailability queries the cluster and computes the report.
func (k *Kubectl) GPUAvailability(ctx context.Context) (*GPUReport, error) {
	nodes, err := k.GetNodes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "problem listing nodes")
	}

	pods, err := k.GetPods(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "problem listing pods")
	}

	report := ComputeGPUReport(nodes, pods)
	return &report, nil
}
