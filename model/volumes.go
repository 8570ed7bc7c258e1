package model

import (
	"context"
	"time"

	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/anser/db"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/orchestr8-platform/orchestr8"
)

const volumeCollection = "volumes"

// Volume is a persistent storage claim owned by a user; pods mount volumes
// at /workspace.
type Volume struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Capacity  string    `bson:"capacity"`
	UserID    string    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`

	env       orchestr8.Environment
	populated bool
}

var (
	volumeIDKey        = bsonutil.MustHaveTag(Volume{}, "ID")
	volumeNameKey      = bsonutil.MustHaveTag(Volume{}, "Name")
	volumeCapacityKey  = bsonutil.MustHaveTag(Volume{}, "Capacity")
	volumeUserIDKey    = bsonutil.MustHaveTag(Volume{}, "UserID")
	volumeCreatedAtKey = bsonutil.MustHaveTag(Volume{}, "CreatedAt")
)

// CreateVolume builds a populated volume document keyed by its sanitized
// name.
func CreateVolume(name, capacity, userID string) *Volume {
	name = SanitizeName(name)
	return &Volume{
		ID:        name,
		Name:      name,
		Capacity:  capacity,
		UserID:    userID,
		CreatedAt: time.Now(),
		populated: true,
	}
}

func (v *Volume) Setup(env orchestr8.Environment) { v.env = env }
func (v *Volume) IsNil() bool                     { return !v.populated }

func (v *Volume) Find(ctx context.Context) error {
	if v.env == nil {
		return errors.New("cannot find with a nil environment")
	}

	v.populated = false
	err := v.env.GetDB().Collection(volumeCollection).FindOne(ctx, bson.M{"_id": v.ID}).Decode(v)
	if db.ResultsNotFound(err) {
		return errors.Wrapf(err, "could not find volume %s in the database", v.ID)
	} else if err != nil {
		return errors.Wrap(err, "problem finding volume")
	}
	v.populated = true

	return nil
}

// SaveNew inserts the volume; if a volume with the same name exists an error
// is returned.
func (v *Volume) SaveNew(ctx context.Context) error {
	if !v.populated {
		return errors.New("cannot save unpopulated volume")
	}
	if v.env == nil {
		return errors.New("cannot save with a nil environment")
	}

	insertResult, err := v.env.GetDB().Collection(volumeCollection).InsertOne(ctx, v)
	grip.DebugWhen(err == nil, message.Fields{
		"collection":   volumeCollection,
		"id":           v.ID,
		"insertResult": insertResult,
		"op":           "save new volume record",
	})

	return errors.Wrapf(err, "problem saving new volume record %s", v.ID)
}

func (v *Volume) Remove(ctx context.Context) error {
	if v.env == nil {
		return errors.New("cannot remove with a nil environment")
	}

	_, err := v.env.GetDB().Collection(volumeCollection).DeleteOne(ctx, bson.M{"_id": v.ID})
	return errors.Wrapf(err, "problem removing volume record %s", v.ID)
}

// Volumes is a collection of volume documents.
type Volumes struct {
	volumes   []Volume
	populated bool
}

func (v *Volumes) IsNil() bool     { return !v.populated }
func (v *Volumes) Slice() []Volume { return v.volumes }

func (v *Volumes) FindByUser(ctx context.Context, env orchestr8.Environment, userID string) error {
	v.populated = false
	cur, err := env.GetDB().Collection(volumeCollection).Find(ctx, bson.M{volumeUserIDKey: userID})
	if err != nil {
		return errors.Wrap(err, "problem finding volumes")
	}
	if err = cur.All(ctx, &v.volumes); err != nil {
		return errors.Wrap(err, "problem decoding volumes")
	}
	v.populated = true

	return nil
}
