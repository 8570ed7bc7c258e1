package units

import (
	"context"
	"fmt"

	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/kube"
	"github.com/orchestr8-platform/orchestr8/model"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
)

const podStatusSyncJobName = "pod-status-sync"

// PodPhaseUnknown is recorded for pods the cluster no longer reports.
const PodPhaseUnknown = "Unknown"

func init() {
	registry.AddJobType(podStatusSyncJobName,
		func() amboy.Job { return makePodStatusSync() })
}

type podStatusSyncJob struct {
	job.Base `bson:"job_base" json:"job_base" yaml:"job_base"`
	env      orchestr8.Environment
}

// NewPodStatusSyncJob records the phase the cluster currently reports
// for every stored pod.
func NewPodStatusSyncJob(env orchestr8.Environment, id string) amboy.Job {
	j := makePodStatusSync()
	j.env = env
	j.SetID(fmt.Sprintf("%s-%s", podStatusSyncJobName, id))
	return j
}

func makePodStatusSync() *podStatusSyncJob {
	j := &podStatusSyncJob{
		env: orchestr8.GetEnvironment(),
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    podStatusSyncJobName,
				Version: 0,
			},
		},
	}

	j.SetDependency(dependency.NewAlways())
	return j
}

func (j *podStatusSyncJob) Run(ctx context.Context) {
	defer j.MarkComplete()

	if j.env == nil {
		j.env = orchestr8.GetEnvironment()
	}

	kubectl := kube.NewKubectl(j.env.GetConf().KubectlPath, j.env.Jasper())
	observed, err := kubectl.GetPods(ctx)
	if err != nil {
		j.AddError(errors.Wrap(err, "problem listing cluster pods"))
		return
	}

	pods := &model.Pods{}
	if err = pods.FindAll(ctx, j.env); err != nil {
		j.AddError(errors.Wrap(err, "problem finding pod records"))
		return
	}

	phases := phasesByName(observed)
	for _, pod := range pods.Slice() {
		phase, ok := phases[pod.ID]
		if !ok {
			phase = PodPhaseUnknown
		}
		if phase == pod.Status.Phase {
			continue
		}

		pod.Setup(j.env)
		if err = pod.SetStatus(ctx, phase); err != nil {
			j.AddError(errors.Wrapf(err, "problem updating status for pod '%s'", pod.ID))
			continue
		}

		grip.Debug(message.Fields{
			"job":   j.ID(),
			"pod":   pod.ID,
			"phase": phase,
		})
	}
}

// phasesByName flattens a pod list into a name to phase lookup.
func phasesByName(pods *corev1.PodList) map[string]string {
	phases := map[string]string{}
	for _, pod := range pods.Items {
		phases[pod.Name] = string(pod.Status.Phase)
	}

	return phases
}
