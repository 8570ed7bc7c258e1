package operations

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	numWorkersFlag  = "workers"
	localQueueFlag  = "localQueue"
	servicePortFlag = "port"

	dbURIFlag  = "dbUri"
	dbNameFlag = "dbName"

	secretKeyFlag  = "secret"
	podPathFlag    = "podPath"
	volumePathFlag = "volumePath"
	kubectlFlag    = "kubectl"
	tlsCertFlag    = "tlsCert"
	tlsKeyFlag     = "tlsKey"

	userNameFlag = "user"
	passwordFlag = "password"
	adminFlag    = "admin"
	flagNameFlag = "flag"
	podNameFlag  = "pod"
	fileFlag     = "file"
)

////////////////////////////////////////////////////////////////////////
//
// Utility Functions

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func mergeFlags(in ...[]cli.Flag) []cli.Flag {
	out := []cli.Flag{}

	for idx := range in {
		out = append(out, in[idx]...)
	}

	return out
}

func setFlagOrFirstPositional(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		val := c.String(name)
		if val == "" {
			if c.NArg() != 1 {
				return errors.Errorf("must specify exactly one positional argument for '%s'", name)
			}

			val = c.Args().Get(0)
		}

		return c.Set(name, val)
	}
}

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func baseFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:  numWorkersFlag,
			Usage: "specify the number of worker jobs this process will have",
			Value: 2,
		},
		cli.StringFlag{
			Name:   secretKeyFlag,
			Usage:  "specify the key used to sign session tokens",
			EnvVar: "ORCHESTR8_SECRET_KEY",
		})
}

func dbFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   dbURIFlag,
			Usage:  "specify a mongodb connection string",
			Value:  "mongodb://localhost:27017",
			EnvVar: "ORCHESTR8_MONGODB_URL",
		},
		cli.StringFlag{
			Name:   dbNameFlag,
			Usage:  "specify a database name to use",
			Value:  "orchestr8",
			EnvVar: "ORCHESTR8_DATABASE_NAME",
		})
}

func kubeFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   podPathFlag,
			Usage:  "directory where pod manifests are written",
			Value:  "/srv/orchestr8/pods",
			EnvVar: "PODS_META_PATH",
		},
		cli.StringFlag{
			Name:   volumePathFlag,
			Usage:  "directory where volume claim manifests are written",
			Value:  "/srv/orchestr8/volumes",
			EnvVar: "VOLUMES_META_PATH",
		},
		cli.StringFlag{
			Name:   kubectlFlag,
			Usage:  "kubectl binary used for cluster operations ('microk8s.kubectl' on microk8s)",
			Value:  "kubectl",
			EnvVar: "ORCHESTR8_KUBECTL_PATH",
		})
}

func tlsFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   tlsCertFlag,
			Usage:  "path to a TLS certificate; enables TLS together with " + tlsKeyFlag,
			EnvVar: "ORCHESTR8_TLS_CERT_PATH",
		},
		cli.StringFlag{
			Name:   tlsKeyFlag,
			Usage:  "path to the TLS private key",
			EnvVar: "ORCHESTR8_TLS_KEY_PATH",
		})
}
