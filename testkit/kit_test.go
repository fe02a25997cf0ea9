package testkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKit(t *testing.T) {
	kit := NewKit(t)
	require.NotNil(t, kit.Ctx)
	require.NotNil(t, kit.Logger)
	require.NotNil(t, kit.Meter)

	c, err := kit.Meter.Counter("trialkit_testkit_total", "testkit counter")
	require.NoError(t, err)
	c.Inc(kit.Ctx)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestNewContext(t *testing.T) {
	ctx := NewContext(t, time.Minute)
	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestNewSQLiteConnector(t *testing.T) {
	conn := NewSQLiteConnector(t)
	assert.True(t, conn.IsHealthy())
	assert.NotNil(t, conn.GetClient())

	file := NewPersistentSQLiteConnector(t)
	assert.NoError(t, file.HealthCheck(NewContext(t, time.Second)))
}
