package units

import (
	"context"
	"fmt"
	"time"

	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/model"
	"github.com/pkg/errors"
)

const hostInfoStatsJobName = "host-info-stats"

func init() {
	registry.AddJobType(hostInfoStatsJobName,
		func() amboy.Job { return makeHostInfoStats() })
}

type hostInfoStatsCollector struct {
	job.Base `bson:"job_base" json:"job_base" yaml:"job_base"`
	env      orchestr8.Environment
}

// NewHostInfoStatsCollector logs a system utilization snapshot and
// persists it as a host_info record for later inspection.
func NewHostInfoStatsCollector(env orchestr8.Environment, id string) amboy.Job {
	j := makeHostInfoStats()
	j.env = env
	j.SetID(fmt.Sprintf("%s-%s", hostInfoStatsJobName, id))
	return j
}

func makeHostInfoStats() *hostInfoStatsCollector {
	j := &hostInfoStatsCollector{
		env: orchestr8.GetEnvironment(),
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    hostInfoStatsJobName,
				Version: 0,
			},
		},
	}

	j.SetDependency(dependency.NewAlways())
	return j
}

func (j *hostInfoStatsCollector) Run(ctx context.Context) {
	defer j.MarkComplete()

	if j.env == nil {
		j.env = orchestr8.GetEnvironment()
	}

	sysinfo := message.CollectSystemInfo().(*message.SystemInfo)
	grip.Info(sysinfo)

	record := &model.SystemInformationRecord{
		Timestamp: time.Now(),
		Data:      *sysinfo,
		Hostname:  sysinfo.Hostname,
	}
	if err := record.Insert(ctx, j.env); err != nil {
		j.AddError(errors.Wrap(err, "problem saving host info record"))
	}
}
