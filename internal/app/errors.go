package app

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mechashelf/admin/internal/pkg"
)

// errorTemplates lists the status codes that have a dedicated error page.
var errorTemplates = map[int]string{
	400: "errors/400.html",
	404: "errors/404.html",
	500: "errors/500.html",
}

// renderError answers a failed request in whatever shape the client asked
// for: the matching error page for browsers, a JSON envelope otherwise.
// Unmapped codes fall back to the 500 page, and a panic while rendering
// falls back to plain text.
func renderError(c *gin.Context, code int, message string) {
	accept := strings.ToLower(c.GetHeader("Accept"))
	// An explicit JSON Accept wins; acceptsHTML alone would also match */*.
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		c.JSON(code, pkg.Response{Code: code, Message: message})
		return
	}
	if acceptsHTML(c) {
		renderHTMLErrorPage(c, code)
		return
	}
	c.JSON(code, pkg.Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// renderHTMLErrorPage renders the error page for code, using the 500 page
// when no dedicated template exists. c.HTML panics on a missing template set,
// so the recover keeps a broken deploy answering in plain text.
func renderHTMLErrorPage(c *gin.Context, code int) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(code, "text/plain; charset=utf-8",
				[]byte(fmt.Sprintf("%d %s", code, defaultStatusText(code))))
		}
	}()

	tmpl, ok := errorTemplates[code]
	if !ok {
		tmpl = errorTemplates[500]
	}
	c.HTML(code, tmpl, gin.H{})
}

// acceptsHTML reports whether the client can take an HTML response.
// text/html, the browser default */*, and a missing Accept header all count.
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html") ||
		strings.Contains(accept, "*/*") ||
		strings.TrimSpace(accept) == ""
}

// defaultStatusText labels the codes the console actually emits; anything
// else is just "Error".
func defaultStatusText(code int) string {
	switch code {
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 408:
		return "Request Timeout"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	default:
		return "Error"
	}
}
