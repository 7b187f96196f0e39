package flash

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/go-redis/redismock/v9"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    for _, ck := range cookies {
        req.AddCookie(ck)
    }
    rec := httptest.NewRecorder()
    return echo.New().NewContext(req, rec), rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
    var found *http.Cookie
    for _, ck := range rec.Result().Cookies() {
        if ck.Name == name {
            found = ck
        }
    }
    return found
}

func TestCookieStoreRoundTrip(t *testing.T) {
    s := NewCookieStore(secret, false)

    c, rec := newContext()
    require.NoError(t, s.Add(c, Message{Kind: Success, Text: "Venue The Musical Hop was successfully listed!"}))
    require.NoError(t, s.Add(c, Message{Kind: Info, Text: "second"}))
    ck := cookieNamed(rec, CookieName)
    require.NotNil(t, ck)
    assert.True(t, ck.HttpOnly)

    c, rec = newContext(ck)
    msgs, err := s.Pop(c)
    require.NoError(t, err)
    assert.Equal(t, []Message{
        {Kind: Success, Text: "Venue The Musical Hop was successfully listed!"},
        {Kind: Info, Text: "second"},
    }, msgs)

    cleared := cookieNamed(rec, CookieName)
    require.NotNil(t, cleared)
    assert.Less(t, cleared.MaxAge, 0)
}

func TestCookieStoreRejectsForeignSignature(t *testing.T) {
    other := NewCookieStore("another-secret", false)
    c, rec := newContext()
    require.NoError(t, other.Add(c, Message{Kind: Error, Text: "forged"}))

    c, _ = newContext(cookieNamed(rec, CookieName))
    msgs, err := NewCookieStore(secret, false).Pop(c)
    require.NoError(t, err)
    assert.Empty(t, msgs)
}

func TestCookieStorePopWithoutCookie(t *testing.T) {
    c, rec := newContext()
    msgs, err := NewCookieStore(secret, false).Pop(c)
    require.NoError(t, err)
    assert.Empty(t, msgs)
    assert.Nil(t, cookieNamed(rec, CookieName))
}

func TestRedisStoreAddCreatesSession(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    s := NewRedisStore(rdb, secret, false)
    c, rec := newContext()

    // the session id is random, so only the cookie is checked here
    mock.Regexp().ExpectRPush(`flash:[0-9a-f]{32}`, `.*`).SetVal(1)
    mock.Regexp().ExpectExpire(`flash:[0-9a-f]{32}`, redisTTL).SetVal(true)

    require.NoError(t, s.Add(c, Message{Kind: Success, Text: "ok"}))
    ck := cookieNamed(rec, SessionCookie)
    require.NotNil(t, ck)

    sid, err := s.parse(ck.Value)
    require.NoError(t, err)
    assert.Len(t, sid, 32)
}

func TestRedisStoreRoundTrip(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    s := NewRedisStore(rdb, secret, false)
    signed, err := s.sign("abc123")
    require.NoError(t, err)
    ck := &http.Cookie{Name: SessionCookie, Value: signed}
    payload := `{"k":"danger","t":"An error occurred. Venue X could not be listed."}`

    mock.ExpectRPush("flash:abc123", payload).SetVal(1)
    mock.ExpectExpire("flash:abc123", redisTTL).SetVal(true)
    c, _ := newContext(ck)
    require.NoError(t, s.Add(c, Message{Kind: Error, Text: "An error occurred. Venue X could not be listed."}))

    mock.ExpectLRange("flash:abc123", 0, -1).SetVal([]string{payload})
    mock.ExpectDel("flash:abc123").SetVal(1)
    c, _ = newContext(ck)
    msgs, err := s.Pop(c)
    require.NoError(t, err)
    assert.Equal(t, []Message{{Kind: Error, Text: "An error occurred. Venue X could not be listed."}}, msgs)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStorePopWithoutSession(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    c, _ := newContext(&http.Cookie{Name: SessionCookie, Value: "garbage"})

    msgs, err := NewRedisStore(rdb, secret, false).Pop(c)
    require.NoError(t, err)
    assert.Empty(t, msgs)
    assert.NoError(t, mock.ExpectationsWereMet())
}

type failingStore struct{}

func (failingStore) Add(echo.Context, Message) error { return context.Canceled }
func (failingStore) Pop(echo.Context) ([]Message, error) {
    return nil, context.Canceled
}

func TestMessagesIncludesNow(t *testing.T) {
    c, _ := newContext()
    Now(c, Message{Kind: Error, Text: "now"})

    assert.Equal(t, []Message{{Kind: Error, Text: "now"}}, Messages(c, failingStore{}))
    assert.Equal(t, []Message{{Kind: Error, Text: "now"}}, Messages(c, nil))
}
