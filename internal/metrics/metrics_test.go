package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotEmpty(t *testing.T) {
	c := NewCollector()
	p := c.Snapshot()
	assert.Zero(t, p.TotalRequisicoes)
	assert.Equal(t, 100.0, p.Uptime)
	assert.Zero(t, p.Erros24h)
}

func TestSnapshotCountsRequests(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.Register(prometheus.NewRegistry()))

	c.Observe("GET", "/api/treinos/", 200, 10*time.Millisecond)
	c.Observe("GET", "/api/treinos/", 200, 20*time.Millisecond)
	c.Observe("POST", "/api/treinos/", 500, 30*time.Millisecond)
	c.Observe("GET", "/api/alunos/", 404, 40*time.Millisecond)

	p := c.Snapshot()
	assert.Equal(t, int64(4), p.TotalRequisicoes)
	assert.Equal(t, 25.0, p.TempoMedioResposta)
	assert.Equal(t, 75.0, p.Uptime)
	assert.Equal(t, int64(1), p.Erros24h)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/api/treinos/", "200")))
}

func TestErrorsOutsideWindowAreDropped(t *testing.T) {
	c := NewCollector()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	c.Observe("GET", "/x", 502, time.Millisecond)

	c.now = func() time.Time { return base.Add(23 * time.Hour) }
	c.Observe("GET", "/x", 500, time.Millisecond)
	assert.Equal(t, int64(2), c.Snapshot().Erros24h)

	c.now = func() time.Time { return base.Add(25 * time.Hour) }
	assert.Equal(t, int64(1), c.Snapshot().Erros24h)
}
