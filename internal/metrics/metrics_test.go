package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/sheet-sync/internal/hub"
	"github.com/DoyleJ11/sheet-sync/pkg/event"
)

var _ hub.Recorder = (*Metrics)(nil)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.Published(event.KindAttributeChange)
	m.Published(event.KindAttributeChange)
	m.Published(event.KindNPCAdd)
	m.Dropped()
	m.Clients(3)
	m.Rooms(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.published.WithLabelValues("attributeChange")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.published.WithLabelValues("npcAdd")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.connections))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rooms))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Clients(1)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "sheetsync_connections_active 1")
	assert.Contains(t, string(body), "go_goroutines")
}
