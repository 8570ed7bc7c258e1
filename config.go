package orchestr8

import (
	"errors"
	"time"

	"github.com/mongodb/grip"
)

// Configuration defines the runtime settings shared by every part of the
// application through the Environment.
type Configuration struct {
	DatabaseName       string
	MongoDBURI         string
	MongoDBDialTimeout time.Duration
	SocketTimeout      time.Duration
	UseLocalQueue      bool
	NumWorkers         int

	// SecretKey signs session tokens. The service will not start
	// without one.
	SecretKey string

	// PodManifestPath and VolumeManifestPath are the directories where
	// rendered kubernetes manifests are written before kubectl applies
	// them.
	PodManifestPath    string
	VolumeManifestPath string

	// KubectlPath is the binary used for all cluster operations; on
	// microk8s deployments this is typically "microk8s.kubectl".
	KubectlPath string
}

func (c *Configuration) Validate() error {
	catcher := grip.NewBasicCatcher()

	if c.MongoDBURI == "" {
		catcher.Add(errors.New("must specify a mongodb url"))
	}
	if c.NumWorkers < 1 {
		catcher.Add(errors.New("must specify a valid number of workers"))
	}
	if c.SecretKey == "" {
		catcher.Add(errors.New("must specify a secret key for session tokens"))
	}
	if c.DatabaseName == "" {
		c.DatabaseName = "orchestr8"
	}
	if c.MongoDBDialTimeout <= 0 {
		c.MongoDBDialTimeout = 2 * time.Second
	}
	if c.SocketTimeout <= 0 {
		c.SocketTimeout = time.Minute
	}
	if c.KubectlPath == "" {
		c.KubectlPath = "kubectl"
	}

	return catcher.Resolve()
}
