// Package fileserver implements the request handling core of the file
// server: path resolution with traversal protection, directory listing
// rendering and chunked file streaming.
package fileserver

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"example.com/fileserver/internal/config"
	"example.com/fileserver/internal/logger"
)

// Handler answers GET requests for files and directory listings under the
// configured serve directory. It holds no per-request state and is safe
// for concurrent use.
type Handler struct {
	cfg *config.Config
	log *logger.Logger
}

// New creates the request handler. A nil logger is replaced by a discard
// logger.
func New(cfg *config.Config, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Handler{cfg: cfg, log: log}
}

// ServeHTTP dispatches a single request: resolve the path, classify the
// target, then render a listing, stream a file, or answer with an error
// status. Any panic is contained here so one bad request cannot take the
// listener down.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("Panic while handling request", logger.LogFields{
				"path":  r.URL.Path,
				"error": fmt.Sprint(rec),
				"stack": string(debug.Stack()),
			})
			// If body bytes already went out this is a no-op on the
			// status line; the failure is only recoverable in the log.
			h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", rec))
		}
	}()

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// RequestURI keeps the path as the client sent it; URL.Path has
	// already been percent-decoded by net/http.
	rawPath := r.RequestURI
	if rawPath == "" {
		rawPath = r.URL.Path
	}

	urlPath, fsPath, err := resolvePath(rawPath, h.cfg.BasePath, h.cfg.Root)
	if err != nil {
		h.log.Warn("Attempted access outside serve directory", logger.LogFields{
			"path":     rawPath,
			"resolved": fsPath,
		})
		h.writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	fi, k := classify(fsPath)
	h.log.Info("Processing request", logger.LogFields{
		"path":     urlPath,
		"resolved": fsPath,
		"outcome":  k.String(),
	})

	switch k {
	case kindDirectory:
		h.serveDirectory(w, fsPath, urlPath)
	case kindFile:
		h.serveFile(w, fsPath, fi)
	default:
		h.log.Warn("Path not found", logger.LogFields{"path": urlPath, "resolved": fsPath})
		h.writeError(w, http.StatusNotFound, "File not found")
	}
}

func (k kind) String() string {
	switch k {
	case kindDirectory:
		return "directory"
	case kindFile:
		return "file"
	default:
		return "not found"
	}
}
