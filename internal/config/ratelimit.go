package config

import (
    "strconv"
    "strings"
    "time"
)

// RateLimitConfig configures the Redis token bucket applied to form
// submissions.  Methods lists the HTTP methods that consume tokens; other
// requests pass untouched.
type RateLimitConfig struct {
    Enabled        bool
    Methods        map[string]bool
    Capacity       int           // bucket size, the allowed burst
    RefillTokens   int           // tokens added every RefillInterval
    RefillInterval time.Duration
    TTL            time.Duration // idle buckets expire after TTL
    KeyStrategy    string        // ip | route | ip_route
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  RATE_LIMIT_RATE takes
// the form tokens/interval, e.g. "1/2s" or "10/1m".
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Methods:        parseMethods(getenv("RATE_LIMIT_METHODS", "POST,PUT,PATCH,DELETE")),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
        RefillTokens:   1,
        RefillInterval: 2 * time.Second,
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip"),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    if n, every, ok := parseRate(getenv("RATE_LIMIT_RATE", "")); ok {
        cfg.RefillTokens, cfg.RefillInterval = n, every
    }
    cfg.normalize()
    return cfg
}

// normalize clamps values the bucket cannot work with.  A bucket must
// outlive a few refill steps or it would reset to full on every request.
func (c *RateLimitConfig) normalize() {
    if c.Capacity < 1 {
        c.Capacity = 1
    }
    if c.RefillTokens < 1 {
        c.RefillTokens = 1
    }
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    if min := 5 * c.RefillInterval; c.TTL < min {
        c.TTL = min
    }
}

func parseRate(s string) (int, time.Duration, bool) {
    tokens, every, found := strings.Cut(strings.TrimSpace(s), "/")
    if !found {
        return 0, 0, false
    }
    n, err := strconv.Atoi(tokens)
    if err != nil || n < 1 {
        return 0, 0, false
    }
    d, err := time.ParseDuration(every)
    if err != nil || d <= 0 {
        return 0, 0, false
    }
    return n, d, true
}
