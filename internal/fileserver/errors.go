package fileserver

import (
	"fmt"
	"html"
	"net/http"
	"strconv"

	"example.com/fileserver/internal/logger"
)

// errorPages maps the statuses this server produces onto the title and
// heading of the generated error document.
var errorPages = map[int]struct {
	Title   string
	Heading string
}{
	http.StatusForbidden: {
		Title:   "403 Forbidden",
		Heading: "Forbidden",
	},
	http.StatusNotFound: {
		Title:   "404 Not Found",
		Heading: "Not Found",
	},
	http.StatusMethodNotAllowed: {
		Title:   "405 Method Not Allowed",
		Heading: "Method Not Allowed",
	},
	http.StatusInternalServerError: {
		Title:   "500 Internal Server Error",
		Heading: "Internal Server Error",
	},
}

// writeError sends a small HTML error page. detail is escaped before
// embedding and must not contain internal state such as stack traces;
// those belong in the log only.
func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	page, ok := errorPages[status]
	if !ok {
		generic := fmt.Sprintf("%d %s", status, http.StatusText(status))
		page.Title, page.Heading = generic, http.StatusText(status)
	}

	body := []byte(fmt.Sprintf(
		"<!DOCTYPE html>\n<html>\n<head><title>%s</title></head>\n<body>\n<h1>%s</h1>\n<p>%s</p>\n</body>\n</html>\n",
		page.Title, page.Heading, html.EscapeString(detail)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.log.Warn("Failed to write error response", logger.LogFields{
			"status": status,
			"error":  err.Error(),
		})
	}
}
