package model

import (
	"testing"
	"time"

	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPodImport(t *testing.T) {
	t.Run("InvalidType", func(t *testing.T) {
		apiPod := &APIPod{}
		assert.Error(t, apiPod.Import(dbmodel.Volume{}))
	})
	t.Run("ValidPod", func(t *testing.T) {
		pod := dbmodel.Pod{
			ID:     "training_run",
			Name:   "training_run",
			Image:  "pytorch/pytorch:latest",
			CPU:    "4",
			Memory: "8Gi",
			GPUs:   2,
			Port:   8888,
			Env: []dbmodel.EnvVar{
				{Name: "MODE", Value: "train"},
			},
			UserID:    "ada",
			VolumeID:  "scratch",
			CreatedAt: time.Now(),
			Status:    dbmodel.PodStatus{Phase: "Running"},
		}

		apiPod := &APIPod{}
		require.NoError(t, apiPod.Import(pod))
		assert.Equal(t, pod.ID, FromAPIString(apiPod.ID))
		assert.Equal(t, pod.Image, FromAPIString(apiPod.Image))
		assert.Equal(t, pod.GPUs, apiPod.GPUs)
		assert.Equal(t, pod.Port, apiPod.Port)
		require.Len(t, apiPod.Env, 1)
		assert.Equal(t, "MODE", FromAPIString(apiPod.Env[0].Name))
		assert.Equal(t, pod.UserID, FromAPIString(apiPod.UserID))
		assert.Equal(t, pod.VolumeID, FromAPIString(apiPod.VolumeID))
		assert.Equal(t, "Running", FromAPIString(apiPod.Phase))
	})
	t.Run("EmptyEnvOmitted", func(t *testing.T) {
		apiPod := &APIPod{}
		require.NoError(t, apiPod.Import(dbmodel.Pod{ID: "bare"}))
		assert.Nil(t, apiPod.Env)
	})
}

func TestVolumeImport(t *testing.T) {
	t.Run("InvalidType", func(t *testing.T) {
		apiVolume := &APIVolume{}
		assert.Error(t, apiVolume.Import(dbmodel.Pod{}))
	})
	t.Run("ValidVolume", func(t *testing.T) {
		volume := dbmodel.Volume{
			ID:        "scratch",
			Name:      "scratch",
			Capacity:  "10Gi",
			UserID:    "ada",
			CreatedAt: time.Now(),
		}

		apiVolume := &APIVolume{}
		require.NoError(t, apiVolume.Import(volume))
		assert.Equal(t, volume.ID, FromAPIString(apiVolume.ID))
		assert.Equal(t, volume.Capacity, FromAPIString(apiVolume.Capacity))
		assert.Equal(t, volume.UserID, FromAPIString(apiVolume.UserID))
	})
}

func TestUserImport(t *testing.T) {
	t.Run("InvalidType", func(t *testing.T) {
		apiUser := &APIUser{}
		assert.Error(t, apiUser.Import("ada"))
	})
	t.Run("PasswordMaterialNotExposed", func(t *testing.T) {
		user := dbmodel.User{
			ID:             "ada",
			HashedPassword: "$2a$10$notarealhash",
			Admin:          true,
			CreatedAt:      time.Now(),
		}

		apiUser := &APIUser{}
		require.NoError(t, apiUser.Import(user))
		assert.Equal(t, user.ID, FromAPIString(apiUser.Username))
		assert.True(t, apiUser.Admin)
	})
}
