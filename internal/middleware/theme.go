package middleware

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fee-tracker-console/internal/models"
)

// ThemeHeader is the response header carrying the presentation class of the active theme.
const ThemeHeader = "X-Console-Theme"

// Theme publishes the active theme on every response so the front-end can set
// its body class without a separate settings read.
type Theme struct {
	class atomic.Value
}

// NewTheme starts with the light theme applied.
func NewTheme() *Theme {
	t := &Theme{}
	t.class.Store(models.ThemeLight.BodyClass())
	return t
}

// Apply switches the published class. It is registered as a settings theme applier.
func (t *Theme) Apply(theme models.Theme) {
	t.class.Store(theme.BodyClass())
}

// Class returns the published class.
func (t *Theme) Class() string {
	class, _ := t.class.Load().(string)
	return class
}

// Handler stamps the theme header when the response is written, so a request
// that changes the theme already carries the new class.
func (t *Theme) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &themeWriter{ResponseWriter: c.Writer, class: t.Class}
		c.Writer = w
		c.Next()
		w.stamp()
	}
}

type themeWriter struct {
	gin.ResponseWriter
	class func() string
}

func (w *themeWriter) stamp() {
	if !w.Written() {
		w.Header().Set(ThemeHeader, w.class())
	}
}

func (w *themeWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *themeWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *themeWriter) Write(data []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(data)
}

func (w *themeWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}
