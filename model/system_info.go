package model

import (
	"context"
	"time"

	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orchestr8-platform/orchestr8"
)

const hostInfoCollection = "host_info"

// SystemInformationRecord is a point-in-time snapshot of the host written by
// the background stats collector.
type SystemInformationRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"ts" json:"time"`
	Data      message.SystemInfo `bson:"sysinfo" json:"sysinfo"`
	Hostname  string             `bson:"hn" json:"hostname"`
}

var (
	sysInfoIDKey        = bsonutil.MustHaveTag(SystemInformationRecord{}, "ID")
	sysInfoTimestampKey = bsonutil.MustHaveTag(SystemInformationRecord{}, "Timestamp")
	sysInfoDataKey      = bsonutil.MustHaveTag(SystemInformationRecord{}, "Data")
	sysInfoHostKey      = bsonutil.MustHaveTag(SystemInformationRecord{}, "Hostname")
)

func (i *SystemInformationRecord) Insert(ctx context.Context, env orchestr8.Environment) error {
	if i.ID.IsZero() {
		i.ID = primitive.NewObjectID()
	}

	_, err := env.GetDB().Collection(hostInfoCollection).InsertOne(ctx, i)
	return errors.Wrap(err, "problem saving host info record")
}

// SystemInformationRecords is a collection of host snapshots.
type SystemInformationRecords struct {
	slice     []*SystemInformationRecord
	populated bool
}

func (i *SystemInformationRecords) IsNil() bool                       { return !i.populated }
func (i *SystemInformationRecords) Slice() []*SystemInformationRecord { return i.slice }

func (i *SystemInformationRecords) FindHostnameBetween(ctx context.Context, env orchestr8.Environment, host string, before, after time.Time, limit int) error {
	query := bson.M{
		sysInfoHostKey: host,
		sysInfoTimestampKey: bson.M{
			"$lt": before,
			"$gt": after,
		},
	}

	opts := options.Find()
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	i.populated = false
	cur, err := env.GetDB().Collection(hostInfoCollection).Find(ctx, query, opts)
	if err != nil {
		return errors.Wrap(err, "problem finding host info records")
	}
	if err = cur.All(ctx, &i.slice); err != nil {
		return errors.Wrap(err, "problem decoding host info records")
	}
	i.populated = true

	return nil
}
