// Package hostinfo reports utilization for the host running the service:
// cpu, memory, and disk through gopsutil, and local GPUs through nvidia-smi.
package hostinfo

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/jasper"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Usage is a used/free percentage pair.
type Usage struct {
	Used float64 `json:"used"`
	Free float64 `json:"free"`
}

// GPUUsage describes one local GPU: load as a percentage and memory as the
// used fraction of total.
type GPUUsage struct {
	Load   float64 `json:"load"`
	Memory float64 `json:"memory"`
}

// Stats is the host utilization snapshot served by the stat route.
type Stats struct {
	CPU  Usage      `json:"cpu"`
	RAM  Usage      `json:"ram"`
	Disk Usage      `json:"disk"`
	GPU  []GPUUsage `json:"gpu"`
}

// Collect gathers a utilization snapshot. Hosts without nvidia-smi report an
// empty GPU list rather than an error.
func Collect(ctx context.Context, jpm jasper.Manager) (*Stats, error) {
	stats := &Stats{GPU: []GPUUsage{}}

	cpuPercents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, errors.Wrap(err, "problem collecting cpu utilization")
	}
	if len(cpuPercents) > 0 {
		stats.CPU.Used = cpuPercents[0]
		stats.CPU.Free = 100.0 - stats.CPU.Used
	}

	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "problem collecting memory utilization")
	}
	stats.RAM.Used = vmem.UsedPercent
	stats.RAM.Free = float64(vmem.Available) * 100 / float64(vmem.Total)

	du, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return nil, errors.Wrap(err, "problem collecting disk utilization")
	}
	stats.Disk.Used = du.UsedPercent
	stats.Disk.Free = 100.0 - du.UsedPercent

	gpus, err := collectGPUs(ctx, jpm)
	if err != nil {
		// hosts without GPUs are normal
		grip.Debug(message.WrapError(err, message.Fields{
			"message": "could not collect gpu utilization",
		}))
	} else {
		stats.GPU = gpus
	}

	return stats, nil
}

func collectGPUs(ctx context.Context, jpm jasper.Manager) ([]GPUUsage, error) {
	if jpm == nil {
		return nil, errors.New("cannot collect gpu stats without a process manager")
	}

	out := &bytes.Buffer{}
	err := jpm.CreateCommand(ctx).
		Add([]string{"nvidia-smi", "--query-gpu=utilization.gpu,memory.used,memory.total", "--format=csv,noheader,nounits"}).
		SetOutputWriter(out).
		Run(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "problem running nvidia-smi")
	}

	return parseNvidiaSMI(out.Bytes())
}

// parseNvidiaSMI reads nvidia-smi's csv output, one "load, used, total" line
// per device.
func parseNvidiaSMI(out []byte) ([]GPUUsage, error) {
	gpus := []GPUUsage{}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			return nil, errors.Errorf("malformed nvidia-smi output line '%s'", line)
		}

		load, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed gpu load in line '%s'", line)
		}
		used, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed gpu memory in line '%s'", line)
		}
		total, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed gpu memory in line '%s'", line)
		}

		usage := GPUUsage{Load: load}
		if total > 0 {
			usage.Memory = used / total
		}
		gpus = append(gpus, usage)
	}

	return gpus, nil
}
