package kube

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/jasper"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
)

// Kubectl runs cluster operations through the configured kubectl binary.
// Processes go through the environment's jasper manager so the service can
// track and reap them.
type Kubectl struct {
	binary string
	jpm    jasper.Manager
}

func NewKubectl(binary string, jpm jasper.Manager) *Kubectl {
	if binary == "" {
		binary = "kubectl"
	}
	return &Kubectl{binary: binary, jpm: jpm}
}

func (k *Kubectl) run(ctx context.Context, args ...string) ([]byte, error) {
	out := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// "microk8s.kubectl" style binaries may carry subcommand words
	cmd := append(strings.Fields(k.binary), args...)

	err := k.jpm.CreateCommand(ctx).
		Add(cmd).
		SetOutputWriter(out).
		SetErrorWriter(stderr).
		Run(ctx)
	if err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"message": "kubectl command failed",
			"args":    args,
			"stderr":  stderr.String(),
		}))
		return nil, errors.Wrapf(err, "kubectl %s failed: %s", strings.Join(args, " "), stderr.String())
	}

	return out.Bytes(), nil
}

// Apply submits a rendered manifest to the cluster.
func (k *Kubectl) Apply(ctx context.Context, path string) error {
	_, err := k.run(ctx, "apply", "-f", path)
	return errors.WithStack(err)
}

// DeletePod removes a pod from the cluster.
func (k *Kubectl) DeletePod(ctx context.Context, name string) error {
	_, err := k.run(ctx, "delete", "pod", name, "--ignore-not-found")
	return errors.WithStack(err)
}

// GetNodes returns every node in the cluster.
func (k *Kubectl) GetNodes(ctx context.Context) (*corev1.NodeList, error) {
	out, err := k.run(ctx, "get", "nodes", "-o", "json")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	nodes := &corev1.NodeList{}
	if err := json.Unmarshal(out, nodes); err != nil {
		return nil, errors.Wrap(err, "problem parsing node list")
	}

	return nodes, nil
}

// GetPods returns every pod in every namespace.
func (k *Kubectl) GetPods(ctx context.Context) (*corev1.PodList, error) {
	out, err := k.run(ctx, "get", "pods", "--all-namespaces", "-o", "json")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pods := &corev1.PodList{}
	if err := json.Unmarshal(out, pods); err != nil {
		return nil, errors.Wrap(err, "problem parsing pod list")
	}

	return pods, nil
}

// GetPod returns a single pod from the default namespace.
func (k *Kubectl) GetPod(ctx context.Context, name string) (*corev1.Pod, error) {
	out, err := k.run(ctx, "get", "pod", name, "-n", "default", "-o", "json")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pod := &corev1.Pod{}
	if err := json.Unmarshal(out, pod); err != nil {
		return nil, errors.Wrap(err, "problem parsing pod")
	}

	return pod, nil
}
