package units

import (
	"context"
	"time"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/model"
	"github.com/pkg/errors"
)

const tsFormat = "2006-01-02.15-04-05"

func StartCrons(ctx context.Context, env orchestr8.Environment) error {
	opts := amboy.QueueOperationConfig{
		ContinueOnError: true,
		LogErrors:       false,
		DebugLogging:    false,
	}

	remote := env.GetRemoteQueue()
	local := env.GetLocalQueue()

	grip.Info(message.Fields{
		"message": "starting background cron jobs",
		"opts":    opts,
		"started": message.Fields{
			"remote": remote.Info().Started,
			"local":  local.Info().Started,
		},
		"stats": message.Fields{
			"remote": remote.Stats(ctx),
			"local":  local.Stats(ctx),
		},
	})

	amboy.IntervalQueueOperation(ctx, local, time.Minute, time.Now(), opts, func(ctx context.Context, queue amboy.Queue) error {
		conf := model.NewOrchestratorConfig(env)
		if err := conf.Find(ctx); err != nil {
			return errors.WithStack(err)
		}

		ts := utility.RoundPartOfMinute(0).Format(tsFormat)
		catcher := grip.NewBasicCatcher()
		if !conf.Flags.DisableHostMetrics {
			catcher.Add(queue.Put(ctx, NewHostInfoStatsCollector(env, ts)))
		}
		catcher.Add(queue.Put(ctx, NewLocalAmboyStatsCollector(env, ts)))
		catcher.Add(queue.Put(ctx, NewJasperManagerCleanup(ts, env)))
		return catcher.Resolve()
	})
	amboy.IntervalQueueOperation(ctx, remote, time.Minute, time.Now(), opts, func(ctx context.Context, queue amboy.Queue) error {
		conf := model.NewOrchestratorConfig(env)
		if err := conf.Find(ctx); err != nil {
			return errors.WithStack(err)
		}

		ts := utility.RoundPartOfMinute(0).Format(tsFormat)
		catcher := grip.NewBasicCatcher()
		if !conf.Flags.DisablePodStatusSync {
			catcher.Add(queue.Put(ctx, NewPodStatusSyncJob(env, ts)))
		}
		catcher.Add(queue.Put(ctx, NewRemoteAmboyStatsCollector(env, ts)))
		return catcher.Resolve()
	})

	return nil
}
