package middleware

import (
    "context"
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/venue-booking/internal/config"
)

// limiterScript refills the bucket stored at KEYS[1] for the time elapsed
// since its last refill and takes one token.
//
// ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_ms
// Reply: {allowed (0|1), tokens left, retry_after_ms}
var limiterScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local cap = tonumber(ARGV[2])
local step = tonumber(ARGV[3])
local every = tonumber(ARGV[4])

local b = redis.call('HMGET', KEYS[1], 'tokens', 'at')
local tokens = tonumber(b[1]) or cap
local at = tonumber(b[2]) or now

local n = math.floor(math.max(0, now - at) / every)
if n > 0 then
  tokens = math.min(cap, tokens + n * step)
  at = at + n * every
end

local retry = 0
local ok = 0
if tokens >= 1 then
  ok = 1
  tokens = tokens - 1
else
  retry = math.max(0, every - (now - at))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'at', at)
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return {ok, tokens, retry}
`)

// verdict is the outcome of one take from a bucket.
type verdict struct {
    allowed    bool
    remaining  int64
    retryAfter time.Duration
}

// bucket takes tokens from per-client buckets kept in Redis.
type bucket struct {
    rdb redis.Scripter
    cfg config.RateLimitConfig
    now func() time.Time
}

func (b *bucket) take(ctx context.Context, key string) (verdict, error) {
    reply, err := limiterScript.Run(ctx, b.rdb, []string{key},
        b.now().UnixMilli(),
        b.cfg.Capacity,
        b.cfg.RefillTokens,
        b.cfg.RefillInterval.Milliseconds(),
        b.cfg.TTL.Milliseconds(),
    ).Int64Slice()
    if err != nil {
        return verdict{}, err
    }
    if len(reply) != 3 {
        return verdict{}, fmt.Errorf("ratelimit: unexpected reply %v", reply)
    }
    return verdict{
        allowed:    reply[0] == 1,
        remaining:  reply[1],
        retryAfter: time.Duration(reply[2]) * time.Millisecond,
    }, nil
}

// NewTokenBucket throttles form submissions: requests whose method is in
// cfg.Methods take one token from the caller's bucket and are refused with
// 429 when it is empty.  Without Redis, or when disabled, it does nothing;
// a Redis failure lets the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    b := &bucket{rdb: rdb, cfg: cfg, now: time.Now}
    return b.middleware
}

func (b *bucket) middleware(next echo.HandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error {
        if len(b.cfg.Methods) > 0 && !b.cfg.Methods[c.Request().Method] {
            return next(c)
        }
        key := rateKey(b.cfg, c)
        v, err := b.take(c.Request().Context(), key)
        if err != nil {
            if b.cfg.Debug {
                c.Logger().Warnf("[ratelimit] %s: %v", key, err)
            }
            return next(c)
        }

        h := c.Response().Header()
        h.Set("X-RateLimit-Limit", strconv.Itoa(b.cfg.Capacity))
        h.Set("X-RateLimit-Remaining", strconv.FormatInt(v.remaining, 10))
        if v.allowed {
            return next(c)
        }

        secs := int((v.retryAfter + time.Second - 1) / time.Second) // round up
        h.Set("Retry-After", strconv.Itoa(secs))
        if b.cfg.Debug {
            c.Logger().Infof("[ratelimit] blocked %s for %s", key, v.retryAfter)
        }
        return echo.NewHTTPError(http.StatusTooManyRequests,
            fmt.Sprintf("Too many submissions, try again in %d seconds.", secs))
    }
}

// rateKey names the bucket of a request: per client ip (default), per
// route, or per client and route.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    route := c.Request().Method + " " + c.Path()

    var scope []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        scope = []string{"route", route}
    case "ip_route":
        scope = []string{"ip", ip, "route", route}
    default:
        scope = []string{"ip", ip}
    }
    return cfg.Prefix + ":" + strings.Join(scope, ":")
}
