package orchestr8

import (
	"context"
	"sync"
	"time"

	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/queue"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/jasper"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var globalEnv *envState

func init()                       { resetEnv() }
func GetEnvironment() Environment { return globalEnv }

func resetEnv() { globalEnv = &envState{name: "global", conf: &Configuration{}} }

// Environment objects provide access to shared configuration and state, in a
// way that you can isolate and test for in.
type Environment interface {
	Configure(context.Context, *Configuration) error

	GetConf() *Configuration
	Context() (context.Context, context.CancelFunc)

	// The Environment provides access to two queues, a
	// local-process level queue for routine tasks and a
	// database-backed queue for work that must be shared between
	// all of the application's processes.
	GetLocalQueue() amboy.Queue
	GetRemoteQueue() amboy.Queue
	SetLocalQueue(amboy.Queue) error
	SetRemoteQueue(amboy.Queue) error

	GetDB() *mongo.Database
	GetClient() *mongo.Client

	Jasper() jasper.Manager

	RegisterCloser(string, CloserFunc)
	Close(context.Context) error
}

type CloserFunc func(context.Context) error

type closerOp struct {
	name   string
	closer CloserFunc
}

type envState struct {
	name        string
	ctx         context.Context
	client      *mongo.Client
	conf        *Configuration
	jpm         jasper.Manager
	localQueue  amboy.Queue
	remoteQueue amboy.Queue
	closers     []closerOp
	mutex       sync.RWMutex
}

func (c *envState) Configure(ctx context.Context, conf *Configuration) error {
	var err error

	if err = conf.Validate(); err != nil {
		return errors.WithStack(err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.ctx = ctx
	c.conf = conf

	connctx, cancel := context.WithTimeout(ctx, conf.MongoDBDialTimeout)
	defer cancel()
	c.client, err = mongo.Connect(connctx, options.Client().
		ApplyURI(conf.MongoDBURI).
		SetConnectTimeout(conf.MongoDBDialTimeout).
		SetSocketTimeout(conf.SocketTimeout))
	if err != nil {
		return errors.Wrapf(err, "could not connect to db %s", conf.MongoDBURI)
	}

	c.jpm, err = jasper.NewSynchronizedManager(false)
	if err != nil {
		return errors.Wrap(err, "problem constructing process manager")
	}

	c.localQueue = queue.NewLocalLimitedSize(conf.NumWorkers, 1024)
	grip.Infof("configured local queue with %d workers", conf.NumWorkers)

	if conf.UseLocalQueue {
		c.remoteQueue = queue.NewLocalLimitedSize(conf.NumWorkers, 1024)
		grip.Info("configured a second local queue in place of a remote queue")
	} else {
		q := queue.NewRemoteUnordered(conf.NumWorkers)
		opts := queue.MongoDBOptions{
			URI:      conf.MongoDBURI,
			DB:       conf.DatabaseName,
			Priority: true,
		}

		mongoDriver := queue.NewMongoDBDriver(QueueName, opts)
		if err = q.SetDriver(mongoDriver); err != nil {
			return errors.Wrap(err, "problem configuring driver")
		}

		c.remoteQueue = q

		grip.Info(message.Fields{
			"message":  "configured a remote mongodb-backed queue",
			"db":       conf.DatabaseName,
			"prefix":   QueueName,
			"priority": true})
	}

	return nil
}

func (c *envState) Context() (context.Context, context.CancelFunc) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return context.WithCancel(c.ctx)
}

func (c *envState) SetLocalQueue(q amboy.Queue) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.localQueue != nil {
		return errors.New("local queue exists, cannot overwrite")
	}

	if q == nil {
		return errors.New("cannot set local queue to nil")
	}

	c.localQueue = q
	grip.Noticef("caching a '%T' queue in the '%s' service cache for use in tasks", q, c.name)
	return nil
}

func (c *envState) SetRemoteQueue(q amboy.Queue) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.remoteQueue != nil {
		return errors.New("remote queue exists, cannot overwrite")
	}

	if q == nil {
		return errors.New("cannot set remote queue to nil")
	}

	c.remoteQueue = q
	grip.Noticef("caching a '%T' queue in the '%s' service cache for use in tasks", q, c.name)
	return nil
}

func (c *envState) GetLocalQueue() amboy.Queue {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.localQueue
}

func (c *envState) GetRemoteQueue() amboy.Queue {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.remoteQueue
}

func (c *envState) GetConf() *Configuration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.conf == nil {
		return nil
	}

	// copy the struct
	conf := *c.conf

	return &conf
}

func (c *envState) GetDB() *mongo.Database {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.client == nil {
		return nil
	}

	if c.conf.DatabaseName == "" {
		return nil
	}

	return c.client.Database(c.conf.DatabaseName)
}

func (c *envState) GetClient() *mongo.Client {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.client
}

func (c *envState) Jasper() jasper.Manager {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.jpm
}

func (c *envState) RegisterCloser(name string, op CloserFunc) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.closers = append(c.closers, closerOp{name: name, closer: op})
}

func (c *envState) Close(ctx context.Context) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	deadline, _ := ctx.Deadline()
	catcher := grip.NewBasicCatcher()
	wg := &sync.WaitGroup{}
	for _, closer := range c.closers {
		wg.Add(1)
		go func(name string, close CloserFunc) {
			defer wg.Done()

			grip.Info(message.Fields{
				"message":      "calling closer",
				"closer":       name,
				"timeout_secs": time.Until(deadline),
				"deadline":     deadline,
			})
			catcher.Add(close(ctx))
		}(closer.name, closer.closer)
	}
	wg.Wait()

	if c.client != nil {
		catcher.Add(c.client.Disconnect(ctx))
	}

	return catcher.Resolve()
}
