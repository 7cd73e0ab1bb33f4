package sentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeEmptyDSNDisabled(t *testing.T) {
	require.NoError(t, Initialize(Config{}))
	assert.False(t, IsEnabled())
}

func TestInitializeInvalidDSN(t *testing.T) {
	assert.Error(t, Initialize(Config{DSN: "not-a-dsn"}))
}
