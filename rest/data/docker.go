package data

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

/////////////////////////////
// DBConnector Implementation
/////////////////////////////

func (dbc *DBConnector) DockerToken(ctx context.Context) (string, error) {
	token, err := dbc.registry.Token(ctx)
	return token, errors.Wrap(err, "problem fetching registry token")
}

func (dbc *DBConnector) DockerSearchImage(ctx context.Context, text, authorization string) (json.RawMessage, error) {
	results, err := dbc.registry.Search(ctx, text, authorization)
	return results, errors.Wrapf(err, "problem searching registry for '%s'", text)
}

///////////////////////////////
// MockConnector Implementation
///////////////////////////////

func (mc *MockConnector) DockerToken(_ context.Context) (string, error) {
	if mc.RegistryToken == "" {
		return "", errors.New("no registry token configured")
	}

	return mc.RegistryToken, nil
}

func (mc *MockConnector) DockerSearchImage(_ context.Context, text, _ string) (json.RawMessage, error) {
	if mc.SearchResults == nil {
		return nil, errors.Errorf("no search results configured for '%s'", text)
	}

	return mc.SearchResults, nil
}
