package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/journeyboard/internal/metrics"
)

const (
	violationLimit  = 10
	violationWindow = time.Hour
	blockDuration   = 24 * time.Hour
)

// Rule limits one route to Requests per Window per client IP.
type Rule struct {
	Name     string
	Method   string
	Path     string
	Requests int
	Window   time.Duration
}

// DefaultRules cover the uncached backend calls.
var DefaultRules = []Rule{
	{Name: "generate", Method: http.MethodPost, Path: "/api/generate", Requests: 5, Window: time.Hour},
	{Name: "search", Method: http.MethodGet, Path: "/api/search", Requests: 30, Window: time.Minute},
}

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Rules            []Rule   // defaults to DefaultRules
	Whitelist        []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled bool     // Enable auto-blocking after repeated violations
}

// RateLimiter implements sliding window rate limiting in Redis. A limiter
// without a Redis client lets every request through.
type RateLimiter struct {
	client    *redis.Client
	rules     []Rule
	whitelist []*net.IPNet
	blocker   *IPBlocker
	autoBlock bool
	logger    zerolog.Logger
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, logger zerolog.Logger, cfg RateLimiterConfig) *RateLimiter {
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules
	}

	rl := &RateLimiter{
		client:    client,
		rules:     rules,
		blocker:   NewIPBlocker(client),
		autoBlock: cfg.AutoBlockEnabled,
		logger:    logger,
	}

	for _, entry := range cfg.Whitelist {
		ipNet, err := parseNet(entry)
		if err != nil {
			logger.Warn().Str("entry", entry).Err(err).Msg("invalid whitelist entry")
			continue
		}
		rl.whitelist = append(rl.whitelist, ipNet)
	}
	if len(rl.whitelist) > 0 {
		logger.Info().Int("entries", len(rl.whitelist)).Msg("rate limit whitelist configured")
	}

	return rl
}

// parseNet accepts CIDR notation or a bare IP, which becomes a single-host network.
func parseNet(entry string) (*net.IPNet, error) {
	if !strings.Contains(entry, "/") {
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, &net.ParseError{Type: "IP address", Text: entry}
		}
		bits := 128
		if ip.To4() != nil {
			ip, bits = ip.To4(), 32
		}
		return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
	}
	_, ipNet, err := net.ParseCIDR(entry)
	return ipNet, err
}

func (rl *RateLimiter) isWhitelisted(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, ipNet := range rl.whitelist {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// ruleFor returns the rule covering the request, or nil.
func (rl *RateLimiter) ruleFor(r *http.Request) *Rule {
	for i := range rl.rules {
		if rl.rules[i].Method == r.Method && rl.rules[i].Path == r.URL.Path {
			return &rl.rules[i]
		}
	}
	return nil
}

// RealIP extracts the real client IP from headers or connection.
func RealIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// quota is the outcome of one rate limit check.
type quota struct {
	allowed   bool
	remaining int
	resetAt   time.Time
}

// take records a hit for ip under rule and reports whether it fits the
// window. Redis errors fail open.
func (rl *RateLimiter) take(ctx context.Context, rule *Rule, ip string) quota {
	now := time.Now()
	key := "ratelimit:" + rule.Name + ":" + ip
	cutoff := strconv.FormatInt(now.Add(-rule.Window).UnixMilli(), 10)

	var count *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", cutoff)
		count = pipe.ZCard(ctx, key)
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(now.UnixMilli()),
			Member: strconv.FormatInt(now.UnixNano(), 10),
		})
		pipe.Expire(ctx, key, rule.Window)
		return nil
	})
	if err != nil {
		rl.logger.Warn().Err(err).Str("rule", rule.Name).Msg("rate limit check failed")
		return quota{allowed: true, remaining: rule.Requests, resetAt: now.Add(rule.Window)}
	}

	used := int(count.Val())
	q := quota{
		allowed:   used < rule.Requests,
		remaining: rule.Requests - used - 1,
		resetAt:   now.Add(rule.Window),
	}
	if q.remaining < 0 {
		q.remaining = 0
	}
	return q
}

// Middleware returns the rate limiting middleware.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.client == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := RealIP(r)
		if rl.isWhitelisted(ip) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		if rl.blocker.IsBlocked(ctx, ip) {
			rl.logger.Warn().
				Str("type", "security").
				Str("event", "blocked_request").
				Str("ip", ip).
				Str("endpoint", r.URL.Path).
				Msg("blocked IP attempted request")
			metrics.BlockedRequests.WithLabelValues("auto_block").Inc()
			writeJSONError(w, http.StatusForbidden, "temporarily blocked")
			return
		}

		rule := rl.ruleFor(r)
		if rule == nil {
			next.ServeHTTP(w, r)
			return
		}

		q := rl.take(ctx, rule, ip)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(q.remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(q.resetAt.Unix(), 10))

		if !q.allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(rule.Window.Seconds())))
			metrics.RateLimitHits.WithLabelValues(rule.Name).Inc()
			rl.logger.Warn().
				Str("type", "security").
				Str("event", "rate_limit_exceeded").
				Str("ip", ip).
				Str("rule", rule.Name).
				Msg("rate limit exceeded")
			rl.trackViolation(ctx, ip)
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// trackViolation counts rejected requests per IP and blocks repeat offenders
// when auto-blocking is enabled.
func (rl *RateLimiter) trackViolation(ctx context.Context, ip string) {
	if !rl.autoBlock {
		return
	}

	key := "violations:" + ip
	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		rl.client.Expire(ctx, key, violationWindow)
	}

	if count >= violationLimit {
		rl.blocker.Block(ctx, ip, blockDuration)
		rl.logger.Warn().
			Str("type", "security").
			Str("event", "ip_auto_blocked").
			Str("ip", ip).
			Int64("violations", count).
			Msg("IP auto-blocked for repeated violations")
	}
}

// IPBlocker manages temporary IP blocks.
type IPBlocker struct {
	client *redis.Client
}

// NewIPBlocker creates a new IP blocker.
func NewIPBlocker(client *redis.Client) *IPBlocker {
	return &IPBlocker{client: client}
}

func blockKey(ip string) string {
	return "blocked:" + ip
}

// IsBlocked reports whether ip is currently blocked.
func (b *IPBlocker) IsBlocked(ctx context.Context, ip string) bool {
	n, err := b.client.Exists(ctx, blockKey(ip)).Result()
	return err == nil && n > 0
}

// Block blocks ip for d.
func (b *IPBlocker) Block(ctx context.Context, ip string, d time.Duration) {
	b.client.Set(ctx, blockKey(ip), time.Now().Add(d).Unix(), d)
}

// Unblock removes a block.
func (b *IPBlocker) Unblock(ctx context.Context, ip string) {
	b.client.Del(ctx, blockKey(ip))
}
