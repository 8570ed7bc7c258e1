package operations

import (
	"context"

	"github.com/mongodb/grip"
	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/kube"
	"github.com/orchestr8-platform/orchestr8/model"
	"github.com/orchestr8-platform/orchestr8/rest/data"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Admin returns the ./orchestr8 admin sub-command, which groups
// maintenance operations that talk to the database and the cluster
// directly rather than going through the REST API.
func Admin() cli.Command {
	return cli.Command{
		Name:  "admin",
		Usage: "manage a deployed orchestr8 application",
		Subcommands: []cli.Command{
			{
				Name:  "conf",
				Usage: "orchestr8 application configuration",
				Subcommands: []cli.Command{
					dumpOrchestratorConfig(),
					setFeatureFlag(),
					unsetFeatureFlag(),
				},
			},
			{
				Name:  "user",
				Usage: "manage orchestr8 accounts",
				Subcommands: []cli.Command{
					createUser(),
					getUserKey(),
				},
			},
			{
				Name:  "pod",
				Usage: "manage running pods",
				Subcommands: []cli.Command{
					removePod(),
				},
			},
		},
	}
}

func dumpOrchestratorConfig() cli.Command {
	return cli.Command{
		Name:  "dump-config",
		Usage: "write current orchestr8 application configuration to a file",
		Flags: mergeFlags(baseFlags(), dbFlags(
			cli.StringFlag{
				Name:  fileFlag,
				Usage: "specify path to a config dump file",
			})),
		Before: requireStringFlag(fileFlag),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sc := newServiceConf(c)
			sc.localQueue = true
			if err := sc.setup(ctx); err != nil {
				return errors.WithStack(err)
			}

			conf := &model.OrchestratorConfig{}
			conf.Setup(orchestr8.GetEnvironment())
			if err := conf.Find(ctx); err != nil {
				return errors.WithStack(err)
			}

			return errors.WithStack(writeJSON(c.String(fileFlag), conf))
		},
	}
}

func setFeatureFlag() cli.Command   { return modifyFeatureFlag("set", true) }
func unsetFeatureFlag() cli.Command { return modifyFeatureFlag("unset", false) }

func modifyFeatureFlag(name string, value bool) cli.Command {
	return cli.Command{
		Name:  name,
		Usage: name + " a named feature flag",
		Flags: mergeFlags(baseFlags(), dbFlags(
			cli.StringFlag{
				Name:  flagNameFlag,
				Usage: "specify the name of the flag to " + name,
			})),
		Before: mergeBeforeFuncs(setFlagOrFirstPositional(flagNameFlag), requireStringFlag(flagNameFlag)),
		Action: func(c *cli.Context) error {
			flag := c.String(flagNameFlag)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sc := newServiceConf(c)
			sc.localQueue = true
			if err := sc.setup(ctx); err != nil {
				return errors.WithStack(err)
			}

			conf := model.NewOrchestratorConfig(orchestr8.GetEnvironment())
			if err := conf.SetFlag(ctx, flag, value); err != nil {
				return errors.Wrapf(err, "problem setting flag '%s' to %t", flag, value)
			}

			grip.Infof("successfully set '%s' to '%t'", flag, value)
			return nil
		},
	}
}

func createUser() cli.Command {
	return cli.Command{
		Name:  "create",
		Usage: "create an account directly in the database",
		Flags: mergeFlags(baseFlags(), dbFlags(
			cli.StringFlag{
				Name:  userNameFlag,
				Usage: "specify the username of the new account",
			},
			cli.StringFlag{
				Name:  passwordFlag,
				Usage: "specify the password of the new account",
			},
			cli.BoolFlag{
				Name:  adminFlag,
				Usage: "grant the new account administrative rights",
			})),
		Before: mergeBeforeFuncs(requireStringFlag(userNameFlag), requireStringFlag(passwordFlag)),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sc := newServiceConf(c)
			sc.localQueue = true
			if err := sc.setup(ctx); err != nil {
				return errors.WithStack(err)
			}

			user, err := model.CreateUser(c.String(userNameFlag), c.String(passwordFlag), c.Bool(adminFlag))
			if err != nil {
				return errors.WithStack(err)
			}
			user.Setup(orchestr8.GetEnvironment())

			if err := user.Save(ctx); err != nil {
				return errors.Wrap(err, "problem saving user")
			}

			grip.Infof("created user '%s' (admin=%t)", user.ID, user.Admin)
			return nil
		},
	}
}

func getUserKey() cli.Command {
	return cli.Command{
		Name:  "key",
		Usage: "log in as an account and print a fresh session token",
		Flags: mergeFlags(baseFlags(), dbFlags(
			cli.StringFlag{
				Name:  userNameFlag,
				Usage: "specify the username of the account",
			},
			cli.StringFlag{
				Name:  passwordFlag,
				Usage: "specify the password of the account",
			})),
		Before: mergeBeforeFuncs(requireStringFlag(userNameFlag), requireStringFlag(passwordFlag)),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sc := newServiceConf(c)
			sc.localQueue = true
			if err := sc.setup(ctx); err != nil {
				return errors.WithStack(err)
			}

			connector := data.CreateNewDBConnector(orchestr8.GetEnvironment())
			token, err := connector.LoginUser(ctx, data.UserCredentials{
				Username: c.String(userNameFlag),
				Password: c.String(passwordFlag),
			})
			if err != nil {
				return errors.Wrap(err, "problem logging in")
			}

			grip.Infoln("session token:", token)
			return nil
		},
	}
}

func removePod() cli.Command {
	return cli.Command{
		Name:  "remove",
		Usage: "tear down a pod and release its reserved ports",
		Flags: mergeFlags(baseFlags(), dbFlags(), kubeFlags(
			cli.StringFlag{
				Name:  podNameFlag,
				Usage: "specify the name of the pod to remove",
			})),
		Before: mergeBeforeFuncs(setFlagOrFirstPositional(podNameFlag), requireStringFlag(podNameFlag)),
		Action: func(c *cli.Context) error {
			name := c.String(podNameFlag)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sc := newServiceConf(c)
			sc.localQueue = true
			if err := sc.setup(ctx); err != nil {
				return errors.WithStack(err)
			}

			env := orchestr8.GetEnvironment()

			pod := &model.Pod{ID: model.SanitizeName(name)}
			pod.Setup(env)
			if err := pod.Find(ctx); err != nil {
				return errors.Wrapf(err, "problem finding pod '%s'", name)
			}

			kubectl := kube.NewKubectl(env.GetConf().KubectlPath, env.Jasper())
			grip.Warning(errors.Wrap(kubectl.DeletePod(ctx, pod.ID), "problem deleting pod from cluster"))

			if err := pod.Remove(ctx); err != nil {
				return errors.Wrap(err, "problem removing pod document")
			}

			if err := model.ReleasePortsForPod(ctx, env, pod.ID); err != nil {
				return errors.Wrap(err, "problem releasing reserved ports")
			}

			grip.Infof("removed pod '%s'", pod.ID)
			return nil
		},
	}
}
