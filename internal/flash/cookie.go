package flash

import (
    "errors"
    "net/http"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// CookieName is the cookie carrying pending messages for CookieStore.
const CookieName = "flash"

const cookieTTL = 5 * time.Minute

type flashClaims struct {
    Messages []Message `json:"msgs"`
    jwt.RegisteredClaims
}

// CookieStore keeps pending messages in an HS256 signed cookie.  It needs no
// server state and is used when Redis is unavailable.
type CookieStore struct {
    secret []byte
    secure bool
}

// NewCookieStore returns a store signing cookies with secret.
func NewCookieStore(secret string, secure bool) *CookieStore {
    return &CookieStore{secret: []byte(secret), secure: secure}
}

const pendingKey = "flash.pending"

// Add appends m to the messages pending for the next request.
func (s *CookieStore) Add(c echo.Context, m Message) error {
    pending, ok := c.Get(pendingKey).([]Message)
    if !ok {
        pending = s.read(c)
    }
    pending = append(pending, m)
    c.Set(pendingKey, pending)

    now := time.Now().UTC()
    claims := flashClaims{
        Messages: pending,
        RegisteredClaims: jwt.RegisteredClaims{
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(cookieTTL)),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
    if err != nil {
        return err
    }
    c.SetCookie(s.cookie(signed, int(cookieTTL/time.Second)))
    return nil
}

// Pop returns and clears the pending messages.  A missing, expired or
// tampered cookie yields no messages.
func (s *CookieStore) Pop(c echo.Context) ([]Message, error) {
    if _, err := c.Cookie(CookieName); err != nil {
        return nil, nil
    }
    msgs := s.read(c)
    c.SetCookie(s.cookie("", -1))
    return msgs, nil
}

func (s *CookieStore) read(c echo.Context) []Message {
    ck, err := c.Cookie(CookieName)
    if err != nil || ck.Value == "" {
        return nil
    }
    var claims flashClaims
    _, err = jwt.ParseWithClaims(ck.Value, &claims, func(t *jwt.Token) (any, error) {
        if t.Method != jwt.SigningMethodHS256 {
            return nil, errors.New("unexpected signing method")
        }
        return s.secret, nil
    })
    if err != nil {
        return nil
    }
    return claims.Messages
}

func (s *CookieStore) cookie(value string, maxAge int) *http.Cookie {
    return &http.Cookie{
        Name:     CookieName,
        Value:    value,
        Path:     "/",
        MaxAge:   maxAge,
        HttpOnly: true,
        Secure:   s.secure,
        SameSite: http.SameSiteLaxMode,
    }
}
