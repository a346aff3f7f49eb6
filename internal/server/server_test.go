package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/fileserver/internal/config"
	"example.com/fileserver/internal/logger"
)

func testConfig(root string) *config.Config {
	return &config.Config{
		Port:      7200,
		Root:      root,
		BindAddr:  "127.0.0.1",
		ChunkSize: config.DefaultChunkSize,
		BasePath:  "/wt",
	}
}

func TestNewRejectsMissingRoot(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "absent"))
	_, err := New(cfg, logger.NewDiscard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestNewRejectsNonDirectoryRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rootfile")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	cfg := testConfig(file)
	_, err := New(cfg, logger.NewDiscard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestNewAcceptsDirectoryRoot(t *testing.T) {
	srv, err := New(testConfig(t.TempDir()), logger.NewDiscard())
	require.NoError(t, err)
	assert.NotNil(t, srv)
}

func TestListenAndServeShutsDownOnCancel(t *testing.T) {
	srv, err := New(testConfig(t.TempDir()), logger.NewDiscard())
	require.NoError(t, err)
	// Bind an ephemeral port so the test cannot collide with a running instance.
	srv.http.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after cancellation")
	}
}
