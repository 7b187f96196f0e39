// Package flash stores one-shot messages shown on the next rendered page.
// Messages added before a redirect survive until the following request pops
// them; messages added with Now are only visible to the current request.
package flash

import (
    "crypto/rand"
    "encoding/hex"
    "log"

    "github.com/labstack/echo/v4"
)

// Message kinds, used as CSS classes by the templates.
const (
    Success = "success"
    Error   = "danger"
    Info    = "info"
)

// Message is one flash entry.
type Message struct {
    Kind string `json:"k"`
    Text string `json:"t"`
}

// Store persists flash messages between requests.
type Store interface {
    Add(c echo.Context, m Message) error
    Pop(c echo.Context) ([]Message, error)
}

const nowKey = "flash.now"

// Now queues m for the page rendered by the current request only.
func Now(c echo.Context, m Message) {
    list, _ := c.Get(nowKey).([]Message)
    c.Set(nowKey, append(list, m))
}

// Messages pops the stored messages of c and appends the ones queued with
// Now.  Store failures are logged and treated as no messages.
func Messages(c echo.Context, s Store) []Message {
    var out []Message
    if s != nil {
        stored, err := s.Pop(c)
        if err != nil {
            log.Printf("flash: pop failed: %v", err)
        }
        out = append(out, stored...)
    }
    now, _ := c.Get(nowKey).([]Message)
    return append(out, now...)
}

// randomHex returns n random bytes hex encoded.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
