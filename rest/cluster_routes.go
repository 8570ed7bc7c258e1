package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/orchestr8-platform/orchestr8/rest/data"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////////////
//
// GET /gpu

type gpuGetHandler struct {
	sc data.Connector
}

func makeGetGPUs(sc data.Connector) gimlet.RouteHandler {
	return &gpuGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new gpuGetHandler.
func (h *gpuGetHandler) Factory() gimlet.RouteHandler {
	return &gpuGetHandler{
		sc: h.sc,
	}
}

func (h *gpuGetHandler) Parse(_ context.Context, _ *http.Request) error {
	return nil
}

// Run calls GPUAvailability and returns the cluster GPU report.
func (h *gpuGetHandler) Run(ctx context.Context) gimlet.Responder {
	report, err := h.sc.GPUAvailability(ctx)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "problem getting GPU availability"))
	}

	return gimlet.NewJSONResponse(report)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /stat

type hostStatsGetHandler struct {
	sc data.Connector
}

func makeGetHostStats(sc data.Connector) gimlet.RouteHandler {
	return &hostStatsGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new hostStatsGetHandler.
func (h *hostStatsGetHandler) Factory() gimlet.RouteHandler {
	return &hostStatsGetHandler{
		sc: h.sc,
	}
}

func (h *hostStatsGetHandler) Parse(_ context.Context, _ *http.Request) error {
	return nil
}

// Run calls HostStats and returns the host utilization snapshot.
func (h *hostStatsGetHandler) Run(ctx context.Context) gimlet.Responder {
	stats, err := h.sc.HostStats(ctx)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "problem getting host stats"))
	}

	return gimlet.NewJSONResponse(stats)
}
