package data

import (
	"context"

	"github.com/orchestr8-platform/orchestr8/hostinfo"
	"github.com/orchestr8-platform/orchestr8/rest/model"
	"github.com/pkg/errors"
)

/////////////////////////////
// DBConnector Implementation
/////////////////////////////

func (dbc *DBConnector) GPUAvailability(ctx context.Context) (*model.APIGPUReport, error) {
	report, err := dbc.kubectl.GPUAvailability(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "problem querying cluster GPUs")
	}

	apiReport := &model.APIGPUReport{}
	if err = apiReport.Import(*report); err != nil {
		return nil, errors.Wrap(err, "corrupt GPU report")
	}

	return apiReport, nil
}

func (dbc *DBConnector) HostStats(ctx context.Context) (*model.APIHostStats, error) {
	stats, err := hostinfo.Collect(ctx, dbc.env.Jasper())
	if err != nil {
		return nil, errors.Wrap(err, "problem collecting host stats")
	}

	apiStats := &model.APIHostStats{}
	if err = apiStats.Import(*stats); err != nil {
		return nil, errors.Wrap(err, "corrupt host stats")
	}

	return apiStats, nil
}

///////////////////////////////
// MockConnector Implementation
///////////////////////////////

func (mc *MockConnector) GPUAvailability(_ context.Context) (*model.APIGPUReport, error) {
	apiReport := &model.APIGPUReport{}
	if err := apiReport.Import(mc.CachedGPUs); err != nil {
		return nil, errors.Wrap(err, "corrupt GPU report")
	}

	return apiReport, nil
}

func (mc *MockConnector) HostStats(_ context.Context) (*model.APIHostStats, error) {
	apiStats := &model.APIHostStats{}
	if err := apiStats.Import(mc.CachedStats); err != nil {
		return nil, errors.Wrap(err, "corrupt host stats")
	}

	return apiStats, nil
}
