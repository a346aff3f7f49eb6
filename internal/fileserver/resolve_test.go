package fileserver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "data")

	cases := []struct {
		name     string
		rawPath  string
		wantURL  string
		wantPath string
	}{
		{"simple file", "/wt/file.txt", "/file.txt", filepath.Join(root, "file.txt")},
		{"nested file", "/wt/sub/dir/file.txt", "/sub/dir/file.txt", filepath.Join(root, "sub", "dir", "file.txt")},
		{"base path only", "/wt", "/", root},
		{"base path with slash", "/wt/", "/", root},
		{"empty path", "", "/", root},
		{"no base prefix", "/other/file.txt", "/other/file.txt", filepath.Join(root, "other", "file.txt")},
		{"query string stripped", "/wt/file.txt?download=1", "/file.txt", filepath.Join(root, "file.txt")},
		{"percent decoded", "/wt/hello%20world.txt", "/hello world.txt", filepath.Join(root, "hello world.txt")},
		{"dot segment collapsed", "/wt/./sub/../file.txt", "/./sub/../file.txt", filepath.Join(root, "file.txt")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			urlPath, fsPath, err := resolvePath(tc.rawPath, "/wt", root)
			require.NoError(t, err)
			assert.Equal(t, tc.wantURL, urlPath)
			assert.Equal(t, tc.wantPath, fsPath)
		})
	}
}

func TestResolvePathRejectsTraversal(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "data")

	rejected := []string{
		"/wt/../etc/passwd",
		"/wt/../../etc/passwd",
		"/wt/../../../../../../etc/passwd",
		"/wt/%2e%2e/%2e%2e/etc/passwd",
		"/wt/sub/../../../etc/passwd",
		"/wt/..%2f..%2fetc/passwd",
	}
	for _, raw := range rejected {
		_, fsPath, err := resolvePath(raw, "/wt", root)
		assert.ErrorIs(t, err, errOutsideRoot, "path %q", raw)
		assert.NotEmpty(t, fsPath, "path %q", raw)
	}
}

func TestResolvePathNoBasePath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "data")

	urlPath, fsPath, err := resolvePath("/file.txt", "", root)
	require.NoError(t, err)
	assert.Equal(t, "/file.txt", urlPath)
	assert.Equal(t, filepath.Join(root, "file.txt"), fsPath)

	_, _, err = resolvePath("/../secret", "", root)
	assert.ErrorIs(t, err, errOutsideRoot)
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, writeFile(file, []byte("content")))

	fi, k := classify(dir)
	assert.Equal(t, kindDirectory, k)
	require.NotNil(t, fi)

	fi, k = classify(file)
	assert.Equal(t, kindFile, k)
	require.NotNil(t, fi)
	assert.Equal(t, int64(7), fi.Size())

	_, k = classify(filepath.Join(dir, "missing"))
	assert.Equal(t, kindNotFound, k)
}
