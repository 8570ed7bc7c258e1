package model

import (
	"context"

	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/anser/db"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orchestr8-platform/orchestr8"
)

const (
	configurationCollection = "configuration"
	orchestratorConfigID    = "orchestr8-system-configuration"
)

// OrchestratorConfig is the application configuration document; runtime
// feature flags live here so they can be flipped without a restart.
type OrchestratorConfig struct {
	ID    string               `bson:"_id" json:"id" yaml:"id"`
	Flags OperationalFlags     `bson:"flags" json:"flags" yaml:"flags"`

	populated bool
	env       orchestr8.Environment
}

var (
	orchestratorConfigIDKey    = bsonutil.MustHaveTag(OrchestratorConfig{}, "ID")
	orchestratorConfigFlagsKey = bsonutil.MustHaveTag(OrchestratorConfig{}, "Flags")
)

type OperationalFlags struct {
	DisableHostMetrics   bool `bson:"disable_host_metrics" json:"disable_host_metrics" yaml:"disable_host_metrics"`
	DisablePodStatusSync bool `bson:"disable_pod_status_sync" json:"disable_pod_status_sync" yaml:"disable_pod_status_sync"`
}

var (
	opsFlagsDisableHostMetricsKey   = bsonutil.MustHaveTag(OperationalFlags{}, "DisableHostMetrics")
	opsFlagsDisablePodStatusSyncKey = bsonutil.MustHaveTag(OperationalFlags{}, "DisablePodStatusSync")
)

func NewOrchestratorConfig(env orchestr8.Environment) *OrchestratorConfig {
	return &OrchestratorConfig{
		ID:  orchestratorConfigID,
		env: env,
	}
}

func (c *OrchestratorConfig) Setup(e orchestr8.Environment) { c.env = e }
func (c *OrchestratorConfig) IsNil() bool                   { return !c.populated }

func (c *OrchestratorConfig) Find(ctx context.Context) error {
	if c.env == nil {
		return errors.New("cannot find with a nil environment")
	}

	c.populated = false
	err := c.env.GetDB().Collection(configurationCollection).FindOne(ctx, bson.M{"_id": orchestratorConfigID}).Decode(c)
	if db.ResultsNotFound(err) {
		// a missing document means default flags
		c.ID = orchestratorConfigID
		c.populated = true
		return nil
	} else if err != nil {
		return errors.Wrap(err, "problem finding application configuration")
	}
	c.populated = true

	return nil
}

func (c *OrchestratorConfig) Save(ctx context.Context) error {
	if !c.populated {
		return errors.New("cannot save a non-populated application configuration")
	}
	if c.env == nil {
		return errors.New("cannot save with a nil environment")
	}

	c.ID = orchestratorConfigID

	res, err := c.env.GetDB().Collection(configurationCollection).ReplaceOne(ctx,
		bson.M{"_id": orchestratorConfigID}, c, options.Replace().SetUpsert(true))
	grip.DebugWhen(err == nil, message.Fields{
		"collection":  configurationCollection,
		"id":          orchestratorConfigID,
		"change_info": res,
		"op":          "save application configuration",
	})

	return errors.Wrap(err, "problem saving application configuration")
}

// SetFlag flips a named operational flag and persists the document.
func (c *OrchestratorConfig) SetFlag(ctx context.Context, name string, value bool) error {
	switch name {
	case opsFlagsDisableHostMetricsKey:
		c.Flags.DisableHostMetrics = value
	case opsFlagsDisablePodStatusSyncKey:
		c.Flags.DisablePodStatusSync = value
	default:
		return errors.Errorf("'%s' is not a known operational flag", name)
	}

	if !c.populated {
		c.populated = true
	}

	return errors.WithStack(c.Save(ctx))
}
