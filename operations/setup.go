package operations

import (
	"context"
	"time"

	"github.com/orchestr8-platform/orchestr8"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

type serviceConf struct {
	numWorkers int
	localQueue bool
	mongodbURI string
	dbName     string
	secretKey  string
	podPath    string
	volumePath string
	kubectl    string
}

func newServiceConf(c *cli.Context) *serviceConf {
	return &serviceConf{
		numWorkers: c.Int(numWorkersFlag),
		localQueue: c.Bool(localQueueFlag),
		mongodbURI: c.String(dbURIFlag),
		dbName:     c.String(dbNameFlag),
		secretKey:  c.String(secretKeyFlag),
		podPath:    c.String(podPathFlag),
		volumePath: c.String(volumePathFlag),
		kubectl:    c.String(kubectlFlag),
	}
}

func (sc *serviceConf) setup(ctx context.Context) error {
	conf := &orchestr8.Configuration{
		DatabaseName:       sc.dbName,
		MongoDBURI:         sc.mongodbURI,
		MongoDBDialTimeout: 2 * time.Second,
		SocketTimeout:      time.Minute,
		UseLocalQueue:      sc.localQueue,
		NumWorkers:         sc.numWorkers,
		SecretKey:          sc.secretKey,
		PodManifestPath:    sc.podPath,
		VolumeManifestPath: sc.volumePath,
		KubectlPath:        sc.kubectl,
	}

	return errors.Wrap(orchestr8.GetEnvironment().Configure(ctx, conf),
		"problem configuring application environment")
}
