package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	dbmodel "github.com/orchestr8-platform/orchestr8/model"
	"github.com/orchestr8-platform/orchestr8/rest/data"
	restmodel "github.com/orchestr8-platform/orchestr8/rest/model"
	"github.com/stretchr/testify/suite"
)

type podHandlerSuite struct {
	ctx context.Context
	sc  *data.MockConnector

	suite.Suite
}

func TestPodHandlerSuite(t *testing.T) {
	suite.Run(t, new(podHandlerSuite))
}

func (s *podHandlerSuite) SetupTest() {
	user := &dbmodel.User{ID: "ada", Admin: true}
	s.ctx = context.WithValue(context.Background(), requestUser, user)
	s.sc = &data.MockConnector{}
}

func (s *podHandlerSuite) jsonRequest(method, route string, payload interface{}) *http.Request {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	return httptest.NewRequest(method, route, bytes.NewReader(body))
}

func (s *podHandlerSuite) TestCreatePodAttributesOwner() {
	h := makeCreatePod(s.sc).Factory().(*podCreateHandler)
	req := s.jsonRequest(http.MethodPost, "/pod", map[string]interface{}{
		"name":            "training run",
		"container_image": "pytorch/pytorch:latest",
		"cpu":             "4",
		"memory":          "8Gi",
		"gpu":             1,
		"port":            8888,
	})
	s.Require().NoError(h.Parse(s.ctx, req))

	resp := h.Run(s.ctx)
	s.Require().Equal(http.StatusOK, resp.Status())

	pod := resp.Data().(*restmodel.APIPod)
	s.Equal("training_run", restmodel.FromAPIString(pod.ID))
	s.Equal("ada", restmodel.FromAPIString(pod.UserID))
}

func (s *podHandlerSuite) TestCreatePodRejectsBadDescription() {
	h := makeCreatePod(s.sc).Factory().(*podCreateHandler)
	req := s.jsonRequest(http.MethodPost, "/pod", map[string]interface{}{
		"name": "broken",
	})
	s.Require().NoError(h.Parse(s.ctx, req))

	resp := h.Run(s.ctx)
	s.Equal(http.StatusBadRequest, resp.Status())
}

func (s *podHandlerSuite) TestGetPodsScopedToCaller() {
	s.sc.CachedPods = map[string]dbmodel.Pod{
		"mine":   {ID: "mine", UserID: "ada"},
		"theirs": {ID: "theirs", UserID: "grace"},
	}

	h := makeGetPods(s.sc).Factory().(*podGetHandler)
	s.Require().NoError(h.Parse(s.ctx, nil))

	resp := h.Run(s.ctx)
	s.Require().Equal(http.StatusOK, resp.Status())

	pods := resp.Data().([]restmodel.APIPod)
	s.Require().Len(pods, 1)
	s.Equal("mine", restmodel.FromAPIString(pods[0].ID))
}

func (s *podHandlerSuite) TestCreateVolumeRequiresFields() {
	h := makeCreateVolume(s.sc).Factory().(*volumeCreateHandler)
	req := s.jsonRequest(http.MethodPost, "/volume", map[string]string{"name": "scratch"})
	s.Error(h.Parse(s.ctx, req))
}

func (s *podHandlerSuite) TestVolumeRoundTrip() {
	create := makeCreateVolume(s.sc).Factory().(*volumeCreateHandler)
	req := s.jsonRequest(http.MethodPost, "/volume", map[string]string{
		"name":     "scratch",
		"capacity": "10Gi",
	})
	s.Require().NoError(create.Parse(s.ctx, req))
	s.Require().Equal(http.StatusOK, create.Run(s.ctx).Status())

	get := makeGetVolumes(s.sc).Factory().(*volumeGetHandler)
	s.Require().NoError(get.Parse(s.ctx, nil))
	resp := get.Run(s.ctx)
	s.Require().Equal(http.StatusOK, resp.Status())

	volumes := resp.Data().([]restmodel.APIVolume)
	s.Require().Len(volumes, 1)
	s.Equal("scratch", restmodel.FromAPIString(volumes[0].ID))
}
