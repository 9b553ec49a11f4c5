package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/api/v1/journey/members/:id", normalizeEndpoint("/api/v1/journey/members/abc"))
	assert.Equal(t, "/api/v1/journey/members/:id/timeline", normalizeEndpoint("/api/v1/journey/members/abc/timeline"))
	assert.Equal(t, "/api/v1/journey/members", normalizeEndpoint("/api/v1/journey/members"))
	assert.Equal(t, "/api/v1/agents/", normalizeEndpoint("/api/v1/agents/"))
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("/api/v1/journey/members/:id", "200"))
	ObserveUpstream("/api/v1/journey/members/xyz", 200, 10*time.Millisecond)
	after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("/api/v1/journey/members/:id", "200"))
	assert.Equal(t, before+1, after)
}
