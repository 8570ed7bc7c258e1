package operations

import (
	"context"

	"github.com/mongodb/grip"
	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/model"
	"github.com/orchestr8-platform/orchestr8/rest"
	"github.com/orchestr8-platform/orchestr8/units"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Service returns the ./orchestr8 service sub-command object, which is
// responsible for starting the REST API and the background cron jobs.
func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run the orchestr8 api service",
		Flags: mergeFlags(baseFlags(), dbFlags(), kubeFlags(), tlsFlags(
			cli.BoolFlag{
				Name:  localQueueFlag,
				Usage: "uses a locally-backed queue rather than MongoDB",
			},
			cli.IntFlag{
				Name:   joinFlagNames(servicePortFlag, "p"),
				Usage:  "specify a port to run the service on",
				Value:  4101,
				EnvVar: "ORCHESTR8_SERVICE_PORT",
			})),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sc := newServiceConf(c)
			if err := sc.setup(ctx); err != nil {
				return errors.WithStack(err)
			}

			env := orchestr8.GetEnvironment()

			if err := model.CreateIndexes(ctx, env); err != nil {
				return errors.Wrap(err, "problem building indexes")
			}

			if err := env.GetLocalQueue().Start(ctx); err != nil {
				return errors.Wrap(err, "problem starting local queue")
			}

			if err := units.StartCrons(ctx, env); err != nil {
				return errors.Wrap(err, "problem starting background jobs")
			}

			service := &rest.Service{
				Port:        c.Int(servicePortFlag),
				Prefix:      "api",
				Environment: env,
				CertFile:    c.String(tlsCertFlag),
				KeyFile:     c.String(tlsKeyFlag),
			}
			if err := service.Validate(); err != nil {
				return errors.Wrap(err, "problem validating service")
			}

			grip.Noticef("starting orchestr8 service on :%d", c.Int(servicePortFlag))
			if err := service.Start(ctx); err != nil {
				return errors.Wrap(err, "problem running service")
			}

			grip.Info("completed service, terminating.")
			return nil
		},
	}
}
