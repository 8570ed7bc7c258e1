package data

import (
	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/kube"
	"github.com/orchestr8-platform/orchestr8/registry"
)

// DBConnector is a struct that implements all of the methods which
// connect to the service layer. These methods abstract the link between
// the service and the API layers, allowing for changes in the service
// architecture without forcing changes to the API.
type DBConnector struct {
	env      orchestr8.Environment
	kubectl  *kube.Kubectl
	registry *registry.Client
}

func CreateNewDBConnector(env orchestr8.Environment) Connector {
	conf := env.GetConf()

	return &DBConnector{
		env:      env,
		kubectl:  kube.NewKubectl(conf.KubectlPath, env.Jasper()),
		registry: registry.NewClient(),
	}
}
