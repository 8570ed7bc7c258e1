package units

import (
	"context"
	"fmt"

	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/orchestr8-platform/orchestr8"
)

const jasperManagerCleanupJobName = "jasper-manager-cleanup"

func init() {
	registry.AddJobType(jasperManagerCleanupJobName,
		func() amboy.Job { return makeJasperManagerCleanup() })
}

type jasperManagerCleanup struct {
	job.Base `bson:"job_base" json:"job_base" yaml:"job_base"`
	env      orchestr8.Environment
}

// NewJasperManagerCleanup reaps terminated kubectl and nvidia-smi
// processes tracked by the process manager.
func NewJasperManagerCleanup(id string, env orchestr8.Environment) amboy.Job {
	j := makeJasperManagerCleanup()
	j.env = env
	j.SetID(fmt.Sprintf("%s-%s", jasperManagerCleanupJobName, id))
	return j
}

func makeJasperManagerCleanup() *jasperManagerCleanup {
	j := &jasperManagerCleanup{
		env: orchestr8.GetEnvironment(),
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    jasperManagerCleanupJobName,
				Version: 0,
			},
		},
	}

	j.SetDependency(dependency.NewAlways())
	return j
}

func (j *jasperManagerCleanup) Run(ctx context.Context) {
	defer j.MarkComplete()

	if j.env == nil {
		j.env = orchestr8.GetEnvironment()
	}

	jpm := j.env.Jasper()
	if jpm == nil {
		return
	}

	jpm.Clear(ctx)
}
