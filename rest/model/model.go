package model

// Model defines how to transform a service-layer document into an API
// model for a given interface.
type Model interface {
	// Import transforms to an API model.
	Import(interface{}) error
}

var (
	_ Model = &APIPod{}
	_ Model = &APIVolume{}
	_ Model = &APIUser{}
	_ Model = &APIHostStats{}
	_ Model = &APIGPUReport{}
)
