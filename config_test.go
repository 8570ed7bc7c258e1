package orchestr8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationValidation(t *testing.T) {
	assert := assert.New(t)

	conf := &Configuration{}
	assert.Error(conf.Validate())

	conf = &Configuration{
		MongoDBURI: "mongodb://localhost:27017",
		NumWorkers: 2,
		SecretKey:  "orchestr8.testing",
	}
	assert.NoError(conf.Validate())

	// defaults are populated during validation
	assert.Equal("orchestr8", conf.DatabaseName)
	assert.Equal("kubectl", conf.KubectlPath)
	assert.True(conf.MongoDBDialTimeout > 0)
	assert.True(conf.SocketTimeout > 0)

	conf.NumWorkers = 0
	assert.Error(conf.Validate())

	conf.NumWorkers = 4
	conf.SecretKey = ""
	assert.Error(conf.Validate())
}
