package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.SchemaLoaded()
	m.SchemaLoaded()
	m.StateUpgraded(true)
	m.StateUpgraded(false)
	m.StateUpgraded(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SchemasLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatesUpgraded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatesUnchanged))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SchemaLoaded()
		m.StateUpgraded(true)
		m.ObserveBatch(time.Now())
	})
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.SchemaLoaded()
	m.ObserveBatch(time.Now())

	path := filepath.Join(t.TempDir(), "statemig.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "statemig_schemas_loaded_total 1")
	assert.Contains(t, string(data), "statemig_batch_upgrade_duration_seconds_count 1")
}
