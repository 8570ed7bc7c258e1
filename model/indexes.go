package model

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orchestr8-platform/orchestr8"
)

// SystemIndexes holds the keys, options and the collection for an index.
type SystemIndexes struct {
	Keys       bson.D
	Options    *options.IndexOptions
	Collection string
}

// GetRequiredIndexes returns the required indexes for the orchestr8
// database. Names are already unique through the _id, so the secondary
// indexes only cover the owner lookups the REST routes perform.
func GetRequiredIndexes() []SystemIndexes {
	return []SystemIndexes{
		{
			Keys:       bson.D{{Key: podUserIDKey, Value: 1}},
			Collection: podCollection,
		},
		{
			Keys:       bson.D{{Key: volumeUserIDKey, Value: 1}},
			Collection: volumeCollection,
		},
		{
			Keys:       bson.D{{Key: reservedPortPodIDKey, Value: 1}},
			Collection: reservedPortCollection,
		},
		{
			Keys:       bson.D{{Key: sysInfoHostKey, Value: 1}, {Key: sysInfoTimestampKey, Value: -1}},
			Collection: hostInfoCollection,
		},
	}
}

// CreateIndexes applies the required indexes; it is safe to call on every
// startup.
func CreateIndexes(ctx context.Context, env orchestr8.Environment) error {
	db := env.GetDB()
	if db == nil {
		return errors.New("cannot create indexes with a nil database")
	}

	for _, idx := range GetRequiredIndexes() {
		model := mongo.IndexModel{Keys: idx.Keys, Options: idx.Options}
		if _, err := db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return errors.Wrapf(err, "problem creating index on %s", idx.Collection)
		}
	}

	return nil
}
