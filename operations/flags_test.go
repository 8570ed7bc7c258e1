package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli"
)

func TestFlagGroups(t *testing.T) {
	assert := assert.New(t)

	flags := mergeFlags(baseFlags(), dbFlags(), kubeFlags(), tlsFlags())
	flagMap := map[string]cli.Flag{}
	for _, f := range flags {
		flagMap[f.GetName()] = f
	}

	expected := []string{
		"workers", "secret",
		"dbUri", "dbName",
		"podPath", "volumePath", "kubectl",
		"tlsCert", "tlsKey",
	}
	for _, n := range expected {
		_, ok := flagMap[n]
		assert.True(ok, n)
	}
}

func TestMergeFlagsPreservesExtras(t *testing.T) {
	assert := assert.New(t)

	extra := cli.BoolFlag{Name: localQueueFlag}
	flags := mergeFlags(dbFlags(extra))

	found := false
	for _, f := range flags {
		if f.GetName() == localQueueFlag {
			found = true
		}
	}
	assert.True(found)
}
