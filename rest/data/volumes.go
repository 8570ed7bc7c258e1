package data

import (
	"context"
	"net/http"
	"sort"

	"github.com/evergreen-ci/gimlet"
	"github.com/orchestr8-platform/orchestr8/kube"
	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/orchestr8-platform/orchestr8/rest/model"
	"github.com/pkg/errors"
)

/////////////////////////////
// DBConnector Implementation
/////////////////////////////

func (dbc *DBConnector) CreateVolume(ctx context.Context, opts VolumeOptions) (*model.APIVolume, error) {
	volume := dbmodel.CreateVolume(opts.Name, opts.Capacity, opts.UserID)
	volume.Setup(dbc.env)

	obj, err := kube.NewVolumeClaimObject(volume)
	if err != nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "invalid volume description").Error(),
		}
	}

	if err = volume.SaveNew(ctx); err != nil {
		return nil, errors.Wrap(err, "problem saving volume")
	}

	path, err := kube.WriteManifest(dbc.env.GetConf().VolumeManifestPath, volume.ID, obj)
	if err != nil {
		return nil, errors.Wrap(err, "problem writing volume manifest")
	}
	if err = dbc.kubectl.Apply(ctx, path); err != nil {
		return nil, errors.Wrapf(err, "problem applying manifest for volume '%s'", volume.ID)
	}

	apiVolume := &model.APIVolume{}
	if err = apiVolume.Import(*volume); err != nil {
		return nil, errors.Wrap(err, "corrupt volume record")
	}

	return apiVolume, nil
}

func (dbc *DBConnector) FindVolumes(ctx context.Context, userID string) ([]model.APIVolume, error) {
	volumes := &dbmodel.Volumes{}
	if err := volumes.FindByUser(ctx, dbc.env, userID); err != nil {
		return nil, errors.Wrapf(err, "problem finding volumes for '%s'", userID)
	}

	return exportVolumes(volumes.Slice())
}

///////////////////////////////
// MockConnector Implementation
///////////////////////////////

func (mc *MockConnector) CreateVolume(_ context.Context, opts VolumeOptions) (*model.APIVolume, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	volume := dbmodel.CreateVolume(opts.Name, opts.Capacity, opts.UserID)
	if _, err := kube.NewVolumeClaimObject(volume); err != nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "invalid volume description").Error(),
		}
	}

	if _, ok := mc.CachedVolumes[volume.ID]; ok {
		return nil, errors.Errorf("volume '%s' already exists", volume.ID)
	}
	if mc.CachedVolumes == nil {
		mc.CachedVolumes = map[string]dbmodel.Volume{}
	}
	mc.CachedVolumes[volume.ID] = *volume

	apiVolume := &model.APIVolume{}
	if err := apiVolume.Import(*volume); err != nil {
		return nil, errors.Wrap(err, "corrupt volume record")
	}

	return apiVolume, nil
}

func (mc *MockConnector) FindVolumes(_ context.Context, userID string) ([]model.APIVolume, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	volumes := []dbmodel.Volume{}
	for _, volume := range mc.CachedVolumes {
		if volume.UserID == userID {
			volumes = append(volumes, volume)
		}
	}
	sort.Slice(volumes, func(i, j int) bool { return volumes[i].ID < volumes[j].ID })

	return exportVolumes(volumes)
}

func exportVolumes(volumes []dbmodel.Volume) ([]model.APIVolume, error) {
	apiVolumes := make([]model.APIVolume, len(volumes))
	for i, volume := range volumes {
		if err := apiVolumes[i].Import(volume); err != nil {
			return nil, errors.Wrap(err, "corrupt volume record")
		}
	}

	return apiVolumes, nil
}
