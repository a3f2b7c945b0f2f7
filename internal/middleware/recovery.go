package middleware

import (
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
)

// Recovery replaces gin.Recovery: it catches a handler panic, logs it with
// the stack through slog, and answers in the shape the caller expects. Browser
// requests (Accept contains "text/html") get the errors/500.html page; the
// API surface gets the JSON envelope:
//
//	{"code": 500, "message": "internal server error", "data": null}
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", err),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(stack)),
				)

				c.Abort()

				if acceptsHTML(c) {
					renderHTMLError(c)
				} else {
					c.JSON(500, gin.H{
						"code":    500,
						"message": "internal server error",
						"data":    nil,
					})
				}
			}
		}()
		c.Next()
	}
}

// renderHTMLError renders errors/500.html, falling back to plain text when no
// HTML renderer is configured.
func renderHTMLError(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(500, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(500, "errors/500.html", gin.H{})
}

// acceptsHTML reports whether the request's Accept header asks for HTML.
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html")
}
