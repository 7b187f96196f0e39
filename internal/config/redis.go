package config

import (
    "context"
    "crypto/tls"
    "log"
    "os"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from the environment.  REDIS_URL
// (redis:// or rediss://) wins when set and valid; otherwise the address is
// REDIS_HOST:REDIS_PORT, then REDIS_ADDR, then localhost:6379, with
// REDIS_PASSWORD, REDIS_DB and REDIS_TLS applied on top.
func RedisOptions() *redis.Options {
    if raw := os.Getenv("REDIS_URL"); raw != "" {
        opts, err := redis.ParseURL(raw)
        if err == nil {
            return opts
        }
        log.Printf("config: ignoring REDIS_URL: %v", err)
    }

    opts := &redis.Options{
        Addr:     redisAddr(),
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       envInt("REDIS_DB", 0),
    }
    if envBool("REDIS_TLS", false) {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    return opts
}

func redisAddr() string {
    host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")
    if host != "" && port != "" {
        return host + ":" + port
    }
    return getenv("REDIS_ADDR", "localhost:6379")
}

// NewRedisClient connects with RedisOptions.  It returns nil when
// REDIS_DISABLED is set or the server does not answer a ping within two
// seconds; callers then fall back to cookie flashes and no rate limit.
func NewRedisClient() *redis.Client {
    if envBool("REDIS_DISABLED", false) {
        return nil
    }
    client := redis.NewClient(RedisOptions())
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Printf("config: redis unavailable at %s: %v", client.Options().Addr, err)
        _ = client.Close()
        return nil
    }
    return client
}
