package fileserver

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"example.com/fileserver/internal/logger"
)

// entry is one row of a directory listing.
type entry struct {
	name    string
	isDir   bool
	size    int64
	modTime time.Time
}

const listingStyle = `<style>
body { font-family: monospace; margin: 20px; }
table { border-collapse: collapse; }
th, td { padding: 5px 15px; text-align: left; }
th { background-color: #f0f0f0; border-bottom: 2px solid #ddd; }
tr:hover { background-color: #f5f5f5; }
a { text-decoration: none; color: #0066cc; }
a:hover { text-decoration: underline; }
.dir { font-weight: bold; }
.size { text-align: right; }
</style>
`

// serveDirectory renders the HTML listing of dirPath's immediate children.
// Entries that fail to stat are dropped with a warning; the listing is
// served with the remainder.
func (h *Handler) serveDirectory(w http.ResponseWriter, dirPath, urlPath string) {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		h.log.Error("Error listing directory", logger.LogFields{
			"dir":   dirPath,
			"error": err.Error(),
		})
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing directory: %v", err))
		return
	}

	entries := make([]entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		fi, err := de.Info()
		if err != nil {
			h.log.Warn("Failed to stat directory entry", logger.LogFields{
				"entry": filepath.Join(dirPath, de.Name()),
				"error": err.Error(),
			})
			continue
		}
		entries = append(entries, entry{
			name:    de.Name(),
			isDir:   fi.IsDir(),
			size:    fi.Size(),
			modTime: fi.ModTime(),
		})
	}

	// Directories first, then case-insensitive by name.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})

	body := renderListing(entries, urlPath, h.cfg.BasePath)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.log.Warn("Failed to write directory listing", logger.LogFields{
			"dir":   dirPath,
			"error": err.Error(),
		})
		return
	}

	h.log.Info("Successfully served directory listing", logger.LogFields{
		"dir":   dirPath,
		"items": len(entries),
	})
}

// renderListing builds the complete listing document. urlPath is the
// decoded request path below the base path; basePath is prepended to every
// generated link so they route back through this server.
func renderListing(entries []entry, urlPath, basePath string) []byte {
	if !strings.HasSuffix(urlPath, "/") {
		urlPath += "/"
	}

	title := html.EscapeString(urlPath)
	escBase := html.EscapeString(basePath)
	escPath := html.EscapeString(urlPath)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>Directory listing for %s</title>\n", title)
	b.WriteString(listingStyle)
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>Directory listing for %s</h1>\n", title)
	b.WriteString("<table>\n<tr><th>Name</th><th>Size</th><th>Last Modified</th></tr>\n")

	if urlPath != "/" {
		parent := path.Dir(strings.TrimSuffix(urlPath, "/"))
		if !strings.HasSuffix(parent, "/") {
			parent += "/"
		}
		fmt.Fprintf(&b, "<tr><td colspan=\"3\"><a href=\"%s%s\">[Parent Directory]</a></td></tr>\n",
			escBase, html.EscapeString(parent))
	}

	for _, e := range entries {
		name := html.EscapeString(e.name)
		var nameCell, sizeCell string
		if e.isDir {
			nameCell = fmt.Sprintf("<a href=\"%s%s%s/\" class=\"dir\">%s/</a>", escBase, escPath, name, name)
			sizeCell = "&lt;DIR&gt;"
		} else {
			nameCell = fmt.Sprintf("<a href=\"%s%s%s\">%s</a>", escBase, escPath, name, name)
			sizeCell = FormatSize(e.size)
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td class=\"size\">%s</td><td>%s</td></tr>\n",
			nameCell, sizeCell, e.modTime.Local().Format("2006-01-02 15:04:05"))
	}

	b.WriteString("</table>\n<hr>\n")
	fmt.Fprintf(&b, "<p>%d items</p>\n", len(entries))
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}
