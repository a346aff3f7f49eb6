package fileserver

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"example.com/fileserver/internal/logger"
)

// serveFile streams the regular file at fsPath to the client in
// chunk-sized reads, never buffering the whole file. The content type is
// guessed from the extension, falling back to application/octet-stream.
func (h *Handler) serveFile(w http.ResponseWriter, fsPath string, fi os.FileInfo) {
	file, err := os.Open(fsPath)
	if err != nil {
		h.log.Error("Error opening file", logger.LogFields{
			"file":  fsPath,
			"error": err.Error(),
		})
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error serving file: %v", err))
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(fsPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filepath.Base(fsPath)))
	w.WriteHeader(http.StatusOK)

	var sent int64
	buf := make([]byte, h.chunkSize())
	for {
		n, readErr := file.Read(buf)
		if n > 0 {
			written, writeErr := w.Write(buf[:n])
			sent += int64(written)
			if writeErr != nil {
				// Headers and possibly body bytes are out already; the
				// client most likely disconnected. Log and give up.
				h.log.Error("Error writing file to response", logger.LogFields{
					"file":  fsPath,
					"sent":  sent,
					"error": writeErr.Error(),
				})
				return
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			h.log.Error("Error reading file mid-stream", logger.LogFields{
				"file":  fsPath,
				"sent":  sent,
				"error": readErr.Error(),
			})
			return
		}
	}

	h.log.Info("Successfully served file", logger.LogFields{
		"file":  fsPath,
		"bytes": sent,
		"size":  humanize.IBytes(uint64(sent)),
	})
}

func (h *Handler) chunkSize() int {
	if h.cfg.ChunkSize > 0 {
		return h.cfg.ChunkSize
	}
	return 64 * 1024
}
