package metrics

import (
	"strconv"
	"strings"
	"time"
)

const membersPrefix = "/api/v1/journey/members/"

// ObserveUpstream records one journey backend call. It matches the
// journey client's Observe hook.
func ObserveUpstream(endpoint string, status int, elapsed time.Duration) {
	endpoint = normalizeEndpoint(endpoint)
	UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	UpstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// normalizeEndpoint replaces member ids in backend paths.
func normalizeEndpoint(endpoint string) string {
	rest, ok := strings.CutPrefix(endpoint, membersPrefix)
	if !ok || rest == "" {
		return endpoint
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return membersPrefix + ":id" + rest[i:]
	}
	return membersPrefix + ":id"
}
