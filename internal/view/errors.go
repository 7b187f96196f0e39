package view

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorPage is the Data of the error templates.
type ErrorPage struct {
	Code    int
	Message string
	Detail  string // only set in debug mode
}

// ErrorHandler returns an echo.HTTPErrorHandler rendering errors/404.html
// for unknown pages and errors/500.html for everything else.  In debug mode
// the underlying error is shown on the page.
func ErrorHandler(debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			log.Printf("http: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}

		name := "errors/500.html"
		title := "Something went wrong"
		if code == http.StatusNotFound {
			name, title = "errors/404.html", "Not Found"
		}
		data := ErrorPage{Code: code, Message: msg}
		if debug {
			data.Detail = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if rerr := c.Render(code, name, Page{Title: title, Data: data}); rerr != nil {
			log.Printf("http: render %s: %v", name, rerr)
			_ = c.String(code, msg)
		}
	}
}
