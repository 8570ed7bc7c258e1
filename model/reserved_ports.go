package model

import (
	"context"
	"fmt"

	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/anser/db"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/orchestr8-platform/orchestr8"
)

const reservedPortCollection = "reserved_ports"

const (
	ProtocolTCP = "TCP"
	ProtocolUDP = "UDP"
)

// ReservedPort records a container port claimed by a pod so that two pods
// cannot be created against the same port and protocol.
type ReservedPort struct {
	ID       string `bson:"_id"`
	Port     int    `bson:"port"`
	Protocol string `bson:"protocol"`
	PodID    string `bson:"pod_id"`

	env       orchestr8.Environment
	populated bool
}

var (
	reservedPortIDKey       = bsonutil.MustHaveTag(ReservedPort{}, "ID")
	reservedPortPortKey     = bsonutil.MustHaveTag(ReservedPort{}, "Port")
	reservedPortProtocolKey = bsonutil.MustHaveTag(ReservedPort{}, "Protocol")
	reservedPortPodIDKey    = bsonutil.MustHaveTag(ReservedPort{}, "PodID")
)

func reservedPortID(port int, protocol string) string {
	return fmt.Sprintf("%d/%s", port, protocol)
}

// ReservePort claims the port for a pod, failing if another pod holds the
// same port and protocol. The _id encodes both so uniqueness comes from the
// collection itself.
func ReservePort(ctx context.Context, env orchestr8.Environment, port int, protocol, podID string) error {
	if protocol == "" {
		protocol = ProtocolTCP
	}
	if protocol != ProtocolTCP && protocol != ProtocolUDP {
		return errors.Errorf("'%s' is not a valid port protocol", protocol)
	}
	if port <= 0 || port > 65535 {
		return errors.Errorf("%d is not a valid port", port)
	}

	doc := &ReservedPort{
		ID:       reservedPortID(port, protocol),
		Port:     port,
		Protocol: protocol,
		PodID:    podID,
	}
	_, err := env.GetDB().Collection(reservedPortCollection).InsertOne(ctx, doc)
	return errors.Wrapf(err, "port %d/%s is already reserved", port, protocol)
}

// ReleasePortsForPod drops every reservation held by a pod.
func ReleasePortsForPod(ctx context.Context, env orchestr8.Environment, podID string) error {
	_, err := env.GetDB().Collection(reservedPortCollection).DeleteMany(ctx, bson.M{reservedPortPodIDKey: podID})
	return errors.Wrapf(err, "problem releasing ports for pod %s", podID)
}

func (r *ReservedPort) Setup(env orchestr8.Environment) { r.env = env }
func (r *ReservedPort) IsNil() bool                     { return !r.populated }

func (r *ReservedPort) Find(ctx context.Context) error {
	if r.env == nil {
		return errors.New("cannot find with a nil environment")
	}
	if r.ID == "" {
		r.ID = reservedPortID(r.Port, r.Protocol)
	}

	r.populated = false
	err := r.env.GetDB().Collection(reservedPortCollection).FindOne(ctx, bson.M{"_id": r.ID}).Decode(r)
	if db.ResultsNotFound(err) {
		return errors.Wrapf(err, "could not find port reservation %s", r.ID)
	} else if err != nil {
		return errors.Wrap(err, "problem finding port reservation")
	}
	r.populated = true

	return nil
}
