package flash

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// SessionCookie holds the signed session id used to key Redis flash lists.
const SessionCookie = "session_id"

const (
    redisTTL   = 10 * time.Minute
    sessionTTL = 30 * 24 * time.Hour
    sidKey     = "flash.sid"
)

// RedisStore keeps pending messages in a Redis list per browser session.
// The session id travels in a signed cookie so clients cannot read another
// session's messages by guessing ids.
type RedisStore struct {
    rdb    redis.Cmdable
    secret []byte
    prefix string
    secure bool
}

// NewRedisStore returns a Redis backed store.
func NewRedisStore(rdb redis.Cmdable, secret string, secure bool) *RedisStore {
    return &RedisStore{rdb: rdb, secret: []byte(secret), prefix: "flash", secure: secure}
}

func (s *RedisStore) key(sid string) string {
    return fmt.Sprintf("%s:%s", s.prefix, sid)
}

// Add appends m to the session's list, creating the session when needed.
func (s *RedisStore) Add(c echo.Context, m Message) error {
    sid, err := s.session(c, true)
    if err != nil {
        return err
    }
    payload, err := json.Marshal(m)
    if err != nil {
        return err
    }
    ctx := c.Request().Context()
    key := s.key(sid)
    if err := s.rdb.RPush(ctx, key, string(payload)).Err(); err != nil {
        return err
    }
    return s.rdb.Expire(ctx, key, redisTTL).Err()
}

// Pop returns and deletes the session's pending messages.
func (s *RedisStore) Pop(c echo.Context) ([]Message, error) {
    sid, err := s.session(c, false)
    if err != nil || sid == "" {
        return nil, err
    }
    ctx := c.Request().Context()
    key := s.key(sid)
    raw, err := s.rdb.LRange(ctx, key, 0, -1).Result()
    if err != nil {
        return nil, err
    }
    if len(raw) == 0 {
        return nil, nil
    }
    if err := s.rdb.Del(ctx, key).Err(); err != nil {
        return nil, err
    }
    out := make([]Message, 0, len(raw))
    for _, r := range raw {
        var m Message
        if err := json.Unmarshal([]byte(r), &m); err != nil {
            continue
        }
        out = append(out, m)
    }
    return out, nil
}

// session returns the session id of c.  With create set, a missing or
// invalid cookie is replaced by a fresh session.
func (s *RedisStore) session(c echo.Context, create bool) (string, error) {
    if sid, ok := c.Get(sidKey).(string); ok {
        return sid, nil
    }
    if ck, err := c.Cookie(SessionCookie); err == nil {
        if sid, err := s.parse(ck.Value); err == nil {
            c.Set(sidKey, sid)
            return sid, nil
        }
    }
    if !create {
        return "", nil
    }
    sid, err := randomHex(16)
    if err != nil {
        return "", err
    }
    signed, err := s.sign(sid)
    if err != nil {
        return "", err
    }
    c.SetCookie(&http.Cookie{
        Name:     SessionCookie,
        Value:    signed,
        Path:     "/",
        MaxAge:   int(sessionTTL / time.Second),
        HttpOnly: true,
        Secure:   s.secure,
        SameSite: http.SameSiteLaxMode,
    })
    c.Set(sidKey, sid)
    return sid, nil
}

func (s *RedisStore) sign(sid string) (string, error) {
    now := time.Now().UTC()
    claims := jwt.RegisteredClaims{
        Subject:   sid,
        IssuedAt:  jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *RedisStore) parse(value string) (string, error) {
    var claims jwt.RegisteredClaims
    _, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (any, error) {
        if t.Method != jwt.SigningMethodHS256 {
            return nil, errors.New("unexpected signing method")
        }
        return s.secret, nil
    })
    if err != nil {
        return "", err
    }
    if claims.Subject == "" {
        return "", errors.New("empty session id")
    }
    return claims.Subject, nil
}
