package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// Typed environment lookups shared by config.go, redis.go and
// ratelimit.go.  An unset, empty or unparsable variable yields the default.

func getenv(key, def string) string {
    return envParse(key, def, func(s string) (string, error) { return s, nil })
}

func envInt(key string, def int) int {
    return envParse(key, def, strconv.Atoi)
}

func envDur(key string, def time.Duration) time.Duration {
    return envParse(key, def, time.ParseDuration)
}

// envBool accepts 1/true/yes/on and 0/false/no/off in any case.
func envBool(key string, def bool) bool {
    return envParse(key, def, func(s string) (bool, error) {
        switch strings.ToLower(s) {
        case "1", "true", "yes", "on":
            return true, nil
        case "0", "false", "no", "off":
            return false, nil
        }
        return def, strconv.ErrSyntax
    })
}

func envParse[T any](key string, def T, parse func(string) (T, error)) T {
    raw := strings.TrimSpace(os.Getenv(key))
    if raw == "" {
        return def
    }
    v, err := parse(raw)
    if err != nil {
        return def
    }
    return v
}

// parseMethods turns "post, delete" into {"POST": true, "DELETE": true}.
func parseMethods(s string) map[string]bool {
    set := make(map[string]bool)
    for _, m := range strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool { return r == ',' || r == ' ' }) {
        set[m] = true
    }
    return set
}
