package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "my_pod", SanitizeName("  my pod "))
	assert.Equal(t, "plain", SanitizeName("plain"))
	assert.Equal(t, "a_b_c", SanitizeName("a b c"))
	assert.Equal(t, "", SanitizeName("   "))
}

func TestCreatePodPopulatesDocument(t *testing.T) {
	pod := CreatePod(" training job ", "pytorch/pytorch:latest", "2", "4Gi", 1, 8888,
		[]EnvVar{{Name: "MODE", Value: "train"}}, "alice", "scratch")

	require.False(t, pod.IsNil())
	assert.Equal(t, "training_job", pod.ID)
	assert.Equal(t, "training_job", pod.Name)
	assert.Equal(t, "pytorch/pytorch:latest", pod.Image)
	assert.Equal(t, 1, pod.GPUs)
	assert.Equal(t, 8888, pod.Port)
	assert.Equal(t, "alice", pod.UserID)
	assert.Equal(t, "scratch", pod.VolumeID)
	assert.Len(t, pod.Env, 1)
	assert.False(t, pod.CreatedAt.IsZero())
	assert.Zero(t, pod.Status.Phase)
}

func TestCreateVolumePopulatesDocument(t *testing.T) {
	vol := CreateVolume("scratch space", "10Gi", "alice")

	require.False(t, vol.IsNil())
	assert.Equal(t, "scratch_space", vol.ID)
	assert.Equal(t, "10Gi", vol.Capacity)
	assert.Equal(t, "alice", vol.UserID)
}

func TestUnconfiguredDocumentsRejectOperations(t *testing.T) {
	ctx := t.Context()

	pod := &Pod{ID: "p"}
	assert.Error(t, pod.Find(ctx))
	assert.Error(t, pod.SaveNew(ctx))
	assert.Error(t, pod.Remove(ctx))
	assert.Error(t, pod.SetStatus(ctx, "Running"))

	vol := &Volume{ID: "v"}
	assert.Error(t, vol.Find(ctx))
	assert.Error(t, vol.SaveNew(ctx))

	user := &User{ID: "u"}
	assert.Error(t, user.Find(ctx))
	assert.Error(t, user.Save(ctx))
}

func TestReservedPortValidation(t *testing.T) {
	assert.Equal(t, "8080/TCP", reservedPortID(8080, ProtocolTCP))

	// validation failures happen before any database access, so a nil
	// environment is fine here
	assert.Error(t, ReservePort(t.Context(), nil, 0, ProtocolTCP, "pod"))
	assert.Error(t, ReservePort(t.Context(), nil, 70000, ProtocolTCP, "pod"))
	assert.Error(t, ReservePort(t.Context(), nil, 8080, "ICMP", "pod"))
}
