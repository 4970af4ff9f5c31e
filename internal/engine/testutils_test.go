package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"fsgate/internal/logging"
	"fsgate/internal/policy"
	"fsgate/pkg/pathsec"
)

// sandbox bundles an engine with its (canonicalized) allowed root for tests.
type sandbox struct {
	eng  *Engine
	root string
}

// newSandbox builds an engine whose only allowed root is a fresh temp dir.
func newSandbox(t *testing.T, allow, deny []string, maxBytes int64) *sandbox {
	t.Helper()

	root, err := pathsec.Canonicalize(t.TempDir())
	require.NoError(t, err)

	store, err := policy.New([]string{root}, allow, deny, maxBytes)
	require.NoError(t, err)

	logger, _ := logging.NewTestLogger()
	return &sandbox{eng: New(store, logger), root: root}
}

// write creates a file under the sandbox root, making parents as needed.
func (s *sandbox) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(s.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// mkdir creates a directory under the sandbox root.
func (s *sandbox) mkdir(t *testing.T, rel string) string {
	t.Helper()
	path := filepath.Join(s.root, rel)
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}

// mustSymlink creates a symbolic link or skips the test on platforms where
// symlink creation fails.
func mustSymlink(t *testing.T, oldname, newname string) {
	t.Helper()
	if err := os.Symlink(oldname, newname); err != nil {
		if runtime.GOOS == "windows" {
			t.Skipf("symlink creation failed on Windows: %v", err)
		}
		t.Fatalf("failed to create symlink: %v", err)
	}
}

const defaultLimit = 10 * 1024 * 1024
