package data

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/orchestr8-platform/orchestr8/kube"
	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/orchestr8-platform/orchestr8/rest/model"
	"github.com/pkg/errors"
)

/////////////////////////////
// DBConnector Implementation
/////////////////////////////

func (dbc *DBConnector) CreatePod(ctx context.Context, opts PodOptions) (*model.APIPod, error) {
	if err := validatePodOptions(opts); err != nil {
		return nil, err
	}

	var volume *dbmodel.Volume
	if opts.VolumeID != "" {
		volume = &dbmodel.Volume{ID: opts.VolumeID}
		volume.Setup(dbc.env)
		if err := volume.Find(ctx); err != nil {
			return nil, gimlet.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    errors.Errorf("storage '%s' not found", opts.VolumeID).Error(),
			}
		}
		if volume.UserID != opts.UserID {
			return nil, gimlet.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    errors.Errorf("storage '%s' does not belong to '%s'", opts.VolumeID, opts.UserID).Error(),
			}
		}
	}

	pod := dbmodel.CreatePod(opts.Name, opts.Image, opts.CPU, opts.Memory,
		opts.GPUs, opts.Port, opts.Env, opts.UserID, opts.VolumeID)
	pod.Setup(dbc.env)

	obj, err := kube.NewPodObject(pod, volume)
	if err != nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "invalid pod description").Error(),
		}
	}

	if err = dbmodel.ReservePort(ctx, dbc.env, opts.Port, opts.Protocol, pod.ID); err != nil {
		return nil, errors.Wrap(err, "problem reserving port")
	}

	if err = pod.SaveNew(ctx); err != nil {
		grip.Error(message.WrapError(dbmodel.ReleasePortsForPod(ctx, dbc.env, pod.ID), message.Fields{
			"op":  "releasing ports after failed pod save",
			"pod": pod.ID,
		}))
		return nil, errors.Wrap(err, "problem saving pod")
	}

	path, err := kube.WriteManifest(dbc.env.GetConf().PodManifestPath, pod.ID, obj)
	if err != nil {
		return nil, errors.Wrap(err, "problem writing pod manifest")
	}
	if err = dbc.kubectl.Apply(ctx, path); err != nil {
		return nil, errors.Wrapf(err, "problem applying manifest for pod '%s'", pod.ID)
	}

	apiPod := &model.APIPod{}
	if err = apiPod.Import(*pod); err != nil {
		return nil, errors.Wrap(err, "corrupt pod record")
	}

	return apiPod, nil
}

func (dbc *DBConnector) FindPods(ctx context.Context, userID string) ([]model.APIPod, error) {
	pods := &dbmodel.Pods{}
	if err := pods.FindByUser(ctx, dbc.env, userID); err != nil {
		return nil, errors.Wrapf(err, "problem finding pods for '%s'", userID)
	}

	return exportPods(pods.Slice())
}

func validatePodOptions(opts PodOptions) error {
	catcher := grip.NewBasicCatcher()

	if opts.Name == "" {
		catcher.Add(errors.New("must specify a pod name"))
	}
	if opts.Image == "" {
		catcher.Add(errors.New("must specify a container image"))
	}
	if opts.CPU == "" || opts.Memory == "" {
		catcher.Add(errors.New("must specify cpu and memory limits"))
	}
	if opts.GPUs < 0 {
		catcher.Add(errors.New("gpu count cannot be negative"))
	}

	if catcher.HasErrors() {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    catcher.Resolve().Error(),
		}
	}

	return nil
}

///////////////////////////////
// MockConnector Implementation
///////////////////////////////

func (mc *MockConnector) CreatePod(_ context.Context, opts PodOptions) (*model.APIPod, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if err := validatePodOptions(opts); err != nil {
		return nil, err
	}

	var volume *dbmodel.Volume
	if opts.VolumeID != "" {
		cached, ok := mc.CachedVolumes[opts.VolumeID]
		if !ok || cached.UserID != opts.UserID {
			return nil, gimlet.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    errors.Errorf("storage '%s' not found", opts.VolumeID).Error(),
			}
		}
		volume = &cached
	}

	pod := dbmodel.CreatePod(opts.Name, opts.Image, opts.CPU, opts.Memory,
		opts.GPUs, opts.Port, opts.Env, opts.UserID, opts.VolumeID)

	if _, err := kube.NewPodObject(pod, volume); err != nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "invalid pod description").Error(),
		}
	}

	if err := mc.reservePort(opts.Port, opts.Protocol, pod.ID); err != nil {
		return nil, errors.Wrap(err, "problem reserving port")
	}

	if _, ok := mc.CachedPods[pod.ID]; ok {
		return nil, errors.Errorf("pod '%s' already exists", pod.ID)
	}
	if mc.CachedPods == nil {
		mc.CachedPods = map[string]dbmodel.Pod{}
	}
	mc.CachedPods[pod.ID] = *pod

	apiPod := &model.APIPod{}
	if err := apiPod.Import(*pod); err != nil {
		return nil, errors.Wrap(err, "corrupt pod record")
	}

	return apiPod, nil
}

func (mc *MockConnector) reservePort(port int, protocol, podID string) error {
	if protocol == "" {
		protocol = dbmodel.ProtocolTCP
	}
	if port <= 0 || port > 65535 {
		return errors.Errorf("%d is not a valid port", port)
	}

	id := fmt.Sprintf("%d/%s", port, protocol)
	if _, ok := mc.CachedPorts[id]; ok {
		return errors.Errorf("port %s is already reserved", id)
	}
	if mc.CachedPorts == nil {
		mc.CachedPorts = map[string]string{}
	}
	mc.CachedPorts[id] = podID

	return nil
}

func (mc *MockConnector) FindPods(_ context.Context, userID string) ([]model.APIPod, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	pods := []dbmodel.Pod{}
	for _, pod := range mc.CachedPods {
		if pod.UserID == userID {
			pods = append(pods, pod)
		}
	}
	sort.Slice(pods, func(i, j int) bool { return pods[i].ID < pods[j].ID })

	return exportPods(pods)
}

func exportPods(pods []dbmodel.Pod) ([]model.APIPod, error) {
	apiPods := make([]model.APIPod, len(pods))
	for i, pod := range pods {
		if err := apiPods[i].Import(pod); err != nil {
			return nil, errors.Wrap(err, "corrupt pod record")
		}
	}

	return apiPods, nil
}
