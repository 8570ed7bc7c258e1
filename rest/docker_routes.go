package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/rest/data"
	"github.com/pkg/errors"
)

const dockerSearchText = "text"

///////////////////////////////////////////////////////////////////////////////
//
// GET /docker/token

type dockerTokenGetHandler struct {
	sc data.Connector
}

func makeGetDockerToken(sc data.Connector) gimlet.RouteHandler {
	return &dockerTokenGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new dockerTokenGetHandler.
func (h *dockerTokenGetHandler) Factory() gimlet.RouteHandler {
	return &dockerTokenGetHandler{
		sc: h.sc,
	}
}

func (h *dockerTokenGetHandler) Parse(_ context.Context, _ *http.Request) error {
	return nil
}

// Run calls DockerToken and returns the anonymous registry token.
func (h *dockerTokenGetHandler) Run(ctx context.Context) gimlet.Responder {
	token, err := h.sc.DockerToken(ctx)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "problem getting registry token"))
	}

	return gimlet.NewJSONResponse(&TokenResponse{Token: token})
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /docker/search?text=

type dockerSearchGetHandler struct {
	text          string
	authorization string
	sc            data.Connector
}

func makeSearchDockerImages(sc data.Connector) gimlet.RouteHandler {
	return &dockerSearchGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new dockerSearchGetHandler.
func (h *dockerSearchGetHandler) Factory() gimlet.RouteHandler {
	return &dockerSearchGetHandler{
		sc: h.sc,
	}
}

// Parse fetches the search text from the query string and the registry
// authorization header, which is forwarded upstream untouched.
func (h *dockerSearchGetHandler) Parse(_ context.Context, r *http.Request) error {
	h.text = r.URL.Query().Get(dockerSearchText)
	if h.text == "" {
		return errors.New("must specify search text")
	}
	h.authorization = r.Header.Get(orchestr8.AuthTokenHeader)

	return nil
}

// Run calls DockerSearchImage and returns the upstream search results.
func (h *dockerSearchGetHandler) Run(ctx context.Context) gimlet.Responder {
	results, err := h.sc.DockerSearchImage(ctx, h.text, h.authorization)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "problem searching for '%s'", h.text))
	}

	return gimlet.NewJSONResponse(struct {
		Data json.RawMessage `json:"data"`
	}{Data: results})
}
