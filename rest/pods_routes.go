package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/orchestr8-platform/orchestr8/rest/data"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////////////
//
// POST /pod

type podCreateHandler struct {
	opts data.PodOptions
	sc   data.Connector
}

func makeCreatePod(sc data.Connector) gimlet.RouteHandler {
	return &podCreateHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new podCreateHandler.
func (h *podCreateHandler) Factory() gimlet.RouteHandler {
	return &podCreateHandler{
		sc: h.sc,
	}
}

// Parse fetches the pod description from the request body.
func (h *podCreateHandler) Parse(_ context.Context, r *http.Request) error {
	return errors.Wrap(gimlet.GetJSON(r.Body, &h.opts), "problem reading pod description")
}

// Run calls CreatePod on behalf of the authenticated user.
func (h *podCreateHandler) Run(ctx context.Context) gimlet.Responder {
	h.opts.UserID = GetUser(ctx).Username()

	pod, err := h.sc.CreatePod(ctx, h.opts)
	if err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "POST",
			"route":   "/pod",
			"pod":     h.opts.Name,
			"user":    h.opts.UserID,
		}))
		return gimlet.MakeJSONErrorResponder(err)
	}

	return gimlet.NewJSONResponse(pod)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /pod

type podGetHandler struct {
	sc data.Connector
}

func makeGetPods(sc data.Connector) gimlet.RouteHandler {
	return &podGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new podGetHandler.
func (h *podGetHandler) Factory() gimlet.RouteHandler {
	return &podGetHandler{
		sc: h.sc,
	}
}

// Parse is a no-op; pods are scoped to the authenticated user.
func (h *podGetHandler) Parse(_ context.Context, _ *http.Request) error {
	return nil
}

// Run calls FindPods and returns the caller's pods.
func (h *podGetHandler) Run(ctx context.Context) gimlet.Responder {
	pods, err := h.sc.FindPods(ctx, GetUser(ctx).Username())
	if err != nil {
		return gimlet.MakeJSONErrorResponder(errors.Wrap(err, "problem getting pods"))
	}

	return gimlet.NewJSONResponse(pods)
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /volume

type volumeCreateHandler struct {
	opts data.VolumeOptions
	sc   data.Connector
}

func makeCreateVolume(sc data.Connector) gimlet.RouteHandler {
	return &volumeCreateHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new volumeCreateHandler.
func (h *volumeCreateHandler) Factory() gimlet.RouteHandler {
	return &volumeCreateHandler{
		sc: h.sc,
	}
}

// Parse fetches the volume description from the request body.
func (h *volumeCreateHandler) Parse(_ context.Context, r *http.Request) error {
	if err := gimlet.GetJSON(r.Body, &h.opts); err != nil {
		return errors.Wrap(err, "problem reading volume description")
	}
	if h.opts.Name == "" || h.opts.Capacity == "" {
		return errors.New("must specify a volume name and capacity")
	}

	return nil
}

// Run calls CreateVolume on behalf of the authenticated user.
func (h *volumeCreateHandler) Run(ctx context.Context) gimlet.Responder {
	h.opts.UserID = GetUser(ctx).Username()

	volume, err := h.sc.CreateVolume(ctx, h.opts)
	if err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "POST",
			"route":   "/volume",
			"volume":  h.opts.Name,
			"user":    h.opts.UserID,
		}))
		return gimlet.MakeJSONErrorResponder(err)
	}

	return gimlet.NewJSONResponse(volume)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /volume

type volumeGetHandler struct {
	sc data.Connector
}

func makeGetVolumes(sc data.Connector) gimlet.RouteHandler {
	return &volumeGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new volumeGetHandler.
func (h *volumeGetHandler) Factory() gimlet.RouteHandler {
	return &volumeGetHandler{
		sc: h.sc,
	}
}

// Parse is a no-op; volumes are scoped to the authenticated user.
func (h *volumeGetHandler) Parse(_ context.Context, _ *http.Request) error {
	return nil
}

// Run calls FindVolumes and returns the caller's volumes.
func (h *volumeGetHandler) Run(ctx context.Context) gimlet.Responder {
	volumes, err := h.sc.FindVolumes(ctx, GetUser(ctx).Username())
	if err != nil {
		return gimlet.MakeJSONErrorResponder(errors.Wrap(err, "problem getting volumes"))
	}

	return gimlet.NewJSONResponse(volumes)
}
