/*
Package orchestr8 holds a number of application level constants and shared
resources for the orchestr8 application.
*/
package orchestr8

import (
	"time"
)

const (
	ShortDateFormat = "2006-01-02T15:04"

	QueueName = "orchestr8.service"
)

// BuildRevision stores the commit in the git repository at build time and is
// specified with -ldflags at build time.
var BuildRevision = ""

const (
	AuthTokenHeader  = "Authorization"
	TokenExpireAfter = time.Hour

	// GPUResourceName is the extended resource advertised by the NVIDIA
	// device plugin on nodes with usable GPUs.
	GPUResourceName = "nvidia.com/gpu"

	// GPUNodeSelector is applied to pods that request GPUs so the
	// scheduler keeps them on accelerator nodes.
	GPUNodeSelectorKey   = "hardware-type"
	GPUNodeSelectorValue = "gpu"
)
