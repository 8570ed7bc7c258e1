package operations

import (
	"context"
	"strings"
	"time"

	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/orchestr8-platform/orchestr8"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Worker returns the ./orchestr8 worker command, which is responsible
// for starting a process that does *not* host the REST API, and only
// processes jobs from the remote queue.
func Worker() cli.Command {
	return cli.Command{
		Name: "worker",
		Usage: strings.Join([]string{
			"run a data processing node without a web front-end",
			"runs jobs until there is no more pending work, or 1 minute, whichever is longer",
		}, "\n\t"),
		Flags: mergeFlags(baseFlags(), dbFlags()),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sc := newServiceConf(c)
			sc.localQueue = false
			if err := sc.setup(ctx); err != nil {
				return errors.WithStack(err)
			}

			env := orchestr8.GetEnvironment()
			q := env.GetRemoteQueue()
			if err := q.Start(ctx); err != nil {
				return errors.Wrap(err, "starting queue")
			}

			time.Sleep(time.Minute)
			grip.Info(q.Stats(ctx))
			amboy.WaitInterval(ctx, q, time.Second)
			grip.Notice("no pending work; shutting worker down.")

			return nil
		},
	}
}
