package model

import (
	"context"
	"strings"
	"time"

	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/anser/db"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/orchestr8-platform/orchestr8"
)

const podCollection = "pods"

// Pod describes a user workload scheduled on the cluster. The document is
// written before the manifest is applied, so a pod may exist here before the
// cluster reports it.
type Pod struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Image     string    `bson:"container_image"`
	CPU       string    `bson:"cpu"`
	Memory    string    `bson:"memory"`
	GPUs      int       `bson:"gpus"`
	Port      int       `bson:"port"`
	Env       []EnvVar  `bson:"env,omitempty"`
	UserID    string    `bson:"user_id"`
	VolumeID  string    `bson:"volume_id,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	Status    PodStatus `bson:"status"`

	env       orchestr8.Environment
	populated bool
}

type EnvVar struct {
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
}

// PodStatus caches the phase last observed by the status sync job.
type PodStatus struct {
	Phase    string    `bson:"phase,omitempty"`
	LastSync time.Time `bson:"last_sync,omitempty"`
}

var (
	podIDKey        = bsonutil.MustHaveTag(Pod{}, "ID")
	podNameKey      = bsonutil.MustHaveTag(Pod{}, "Name")
	podImageKey     = bsonutil.MustHaveTag(Pod{}, "Image")
	podUserIDKey    = bsonutil.MustHaveTag(Pod{}, "UserID")
	podVolumeIDKey  = bsonutil.MustHaveTag(Pod{}, "VolumeID")
	podCreatedAtKey = bsonutil.MustHaveTag(Pod{}, "CreatedAt")
	podStatusKey    = bsonutil.MustHaveTag(Pod{}, "Status")

	podStatusPhaseKey    = bsonutil.MustHaveTag(PodStatus{}, "Phase")
	podStatusLastSyncKey = bsonutil.MustHaveTag(PodStatus{}, "LastSync")
)

// SanitizeName normalizes a user supplied name the way the manifests expect:
// surrounding space removed and inner spaces replaced with underscores.
func SanitizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// CreatePod builds a populated pod document keyed by its sanitized name.
func CreatePod(name, image, cpu, memory string, gpus, port int, env []EnvVar, userID, volumeID string) *Pod {
	name = SanitizeName(name)
	return &Pod{
		ID:        name,
		Name:      name,
		Image:     image,
		CPU:       cpu,
		Memory:    memory,
		GPUs:      gpus,
		Port:      port,
		Env:       env,
		UserID:    userID,
		VolumeID:  volumeID,
		CreatedAt: time.Now(),
		populated: true,
	}
}

func (p *Pod) Setup(env orchestr8.Environment) { p.env = env }
func (p *Pod) IsNil() bool                     { return !p.populated }

func (p *Pod) Find(ctx context.Context) error {
	if p.env == nil {
		return errors.New("cannot find with a nil environment")
	}

	p.populated = false
	err := p.env.GetDB().Collection(podCollection).FindOne(ctx, bson.M{"_id": p.ID}).Decode(p)
	if db.ResultsNotFound(err) {
		return errors.Wrapf(err, "could not find pod %s in the database", p.ID)
	} else if err != nil {
		return errors.Wrap(err, "problem finding pod")
	}
	p.populated = true

	return nil
}

// SaveNew inserts the pod; if a pod with the same name exists an error is
// returned.
func (p *Pod) SaveNew(ctx context.Context) error {
	if !p.populated {
		return errors.New("cannot save unpopulated pod")
	}
	if p.env == nil {
		return errors.New("cannot save with a nil environment")
	}

	insertResult, err := p.env.GetDB().Collection(podCollection).InsertOne(ctx, p)
	grip.DebugWhen(err == nil, message.Fields{
		"collection":   podCollection,
		"id":           p.ID,
		"insertResult": insertResult,
		"op":           "save new pod record",
	})

	return errors.Wrapf(err, "problem saving new pod record %s", p.ID)
}

func (p *Pod) Remove(ctx context.Context) error {
	if p.env == nil {
		return errors.New("cannot remove with a nil environment")
	}

	_, err := p.env.GetDB().Collection(podCollection).DeleteOne(ctx, bson.M{"_id": p.ID})
	return errors.Wrapf(err, "problem removing pod record %s", p.ID)
}

// SetStatus records the phase last observed on the cluster.
func (p *Pod) SetStatus(ctx context.Context, phase string) error {
	if p.env == nil {
		return errors.New("cannot update status with a nil environment")
	}

	p.Status = PodStatus{Phase: phase, LastSync: time.Now()}

	update := bson.M{"$set": bson.M{
		bsonutil.GetDottedKeyName(podStatusKey, podStatusPhaseKey):    p.Status.Phase,
		bsonutil.GetDottedKeyName(podStatusKey, podStatusLastSyncKey): p.Status.LastSync,
	}}
	_, err := p.env.GetDB().Collection(podCollection).UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	return errors.Wrapf(err, "problem updating status for pod %s", p.ID)
}

// Pods is a collection of pod documents.
type Pods struct {
	pods      []Pod
	populated bool
}

func (p *Pods) IsNil() bool  { return !p.populated }
func (p *Pods) Slice() []Pod { return p.pods }

func (p *Pods) FindByUser(ctx context.Context, env orchestr8.Environment, userID string) error {
	return p.runQuery(ctx, env, bson.M{podUserIDKey: userID})
}

func (p *Pods) FindAll(ctx context.Context, env orchestr8.Environment) error {
	return p.runQuery(ctx, env, bson.M{})
}

func (p *Pods) runQuery(ctx context.Context, env orchestr8.Environment, query bson.M) error {
	p.populated = false
	cur, err := env.GetDB().Collection(podCollection).Find(ctx, query)
	if err != nil {
		return errors.Wrap(err, "problem finding pods")
	}
	if err = cur.All(ctx, &p.pods); err != nil {
		return errors.Wrap(err, "problem decoding pods")
	}
	p.populated = true

	return nil
}
