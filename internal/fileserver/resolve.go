package fileserver

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// errOutsideRoot marks a request whose normalized path escapes the served
// root. The dispatcher maps it to 403 Forbidden.
var errOutsideRoot = errors.New("path resolves outside the serve directory")

// kind is the classification of a resolved filesystem path.
type kind int

const (
	kindNotFound kind = iota
	kindDirectory
	kindFile
)

// resolvePath maps a raw request path onto an absolute filesystem path
// strictly inside root. It percent-decodes the path, strips the URL base
// path prefix if present, drops any query string, joins the remainder onto
// root and normalizes it, then enforces containment on the normalized
// form. urlPath is the decoded root-relative URL path used for listings
// and link generation; fsPath is returned even on rejection so the caller
// can log it.
func resolvePath(rawPath, basePath, root string) (urlPath, fsPath string, err error) {
	decoded, derr := url.PathUnescape(rawPath)
	if derr != nil {
		// Undecodable sequences are served literally, the containment
		// check below still applies.
		decoded = rawPath
	}
	if basePath != "" && strings.HasPrefix(decoded, basePath) {
		decoded = strings.TrimPrefix(decoded, basePath)
	}
	if !strings.HasPrefix(decoded, "/") {
		decoded = "/" + decoded
	}
	if i := strings.Index(decoded, "?"); i >= 0 {
		decoded = decoded[:i]
	}

	// filepath.Join cleans the result, so "." and ".." segments are
	// resolved before the prefix check.
	fsPath = filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(decoded, "/")))
	if fsPath != root && !strings.HasPrefix(fsPath, root+string(filepath.Separator)) {
		return decoded, fsPath, fmt.Errorf("%w: %s", errOutsideRoot, fsPath)
	}
	return decoded, fsPath, nil
}

// classify stats the resolved path and reports what it is. Anything that
// is neither a directory nor a regular file, including paths that fail to
// stat, is reported as not found.
func classify(fsPath string) (os.FileInfo, kind) {
	fi, err := os.Stat(fsPath)
	if err != nil {
		return nil, kindNotFound
	}
	switch {
	case fi.IsDir():
		return fi, kindDirectory
	case fi.Mode().IsRegular():
		return fi, kindFile
	default:
		return nil, kindNotFound
	}
}
