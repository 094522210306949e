package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServicePort(t *testing.T) {
	assert.Equal(t, "8010", ServicePort("http://localhost:8010", "80"))
	assert.Equal(t, "8010", ServicePort("http://localhost:8010/", "80"))
	assert.Equal(t, "80", ServicePort("http://localhost", "80"))
	assert.Equal(t, "80", ServicePort("", "80"))
}

func TestTypedGettersFallBack(t *testing.T) {
	c := &Config{
		BlacklistCacheTTLSeconds:     "abc",
		BlacklistSweepIntervalMinute: "0",
		RateLimitMaxRequests:         "250",
	}

	assert.Equal(t, 60*time.Second, c.GetBlacklistCacheTTL())
	assert.Equal(t, time.Hour, c.GetBlacklistSweepInterval())
	assert.Equal(t, 250, c.GetRateLimitMaxRequests())
	assert.Equal(t, 60, c.GetRateLimitTimeWindowSeconds())
}

func TestGetKafkaBrokers(t *testing.T) {
	c := &Config{KafkaBrokers: " kafka-1:9092, ,kafka-2:9092"}
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.GetKafkaBrokers())

	empty := &Config{}
	assert.Empty(t, empty.GetKafkaBrokers())
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("BLACKLIST_TEST_FLAG", "true")
	assert.True(t, getEnvAsBool("BLACKLIST_TEST_FLAG", false))

	t.Setenv("BLACKLIST_TEST_FLAG", "nope")
	assert.False(t, getEnvAsBool("BLACKLIST_TEST_FLAG", false))
}
