package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsgate/pkg/pathsec"
)

func newTestStore(t *testing.T, roots []string, allow, deny []string, maxBytes int64) *Store {
	t.Helper()
	s, err := New(roots, allow, deny, maxBytes)
	require.NoError(t, err)
	return s
}

func TestNewValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := New(nil, nil, nil, 1024)
	assert.Error(t, err, "empty root set must be rejected")

	_, err = New([]string{dir}, nil, nil, 0)
	assert.Error(t, err, "zero size ceiling must be rejected")

	_, err = New([]string{dir}, nil, nil, -1)
	assert.Error(t, err, "negative size ceiling must be rejected")

	_, err = New([]string{"   "}, nil, nil, 1024)
	assert.Error(t, err, "blank root must be rejected")
}

func TestRootsAreCanonicalized(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(target, 0o755))

	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	s := newTestStore(t, []string{link}, nil, nil, 1024)

	canonicalTarget, err := pathsec.Canonicalize(target)
	require.NoError(t, err)
	assert.True(t, s.IsPathAllowed(filepath.Join(canonicalTarget, "file.txt")),
		"path under the resolved root must be allowed")
}

func TestIsPathAllowedBoundary(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "b")
	require.NoError(t, os.Mkdir(root, 0o755))

	s := newTestStore(t, []string{root}, nil, nil, 1024)
	canonicalRoot, err := pathsec.Canonicalize(root)
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"root itself", canonicalRoot, true},
		{"direct child", filepath.Join(canonicalRoot, "c"), true},
		{"deep descendant", filepath.Join(canonicalRoot, "c", "d", "e.txt"), true},
		{"sibling with shared prefix", canonicalRoot + "c", false},
		{"file under sibling prefix", canonicalRoot + "c" + string(filepath.Separator) + "x.txt", false},
		{"parent", filepath.Dir(canonicalRoot), false},
		{"unrelated", "/etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsPathAllowed(tt.path), "path %q", tt.path)
		})
	}
}

func TestIsExtensionAllowed(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		allow []string
		deny  []string
		path  string
		want  bool
	}{
		{"allow list member", []string{".txt", ".md"}, nil, "a/notes.txt", true},
		{"allow list non-member", []string{".txt", ".md"}, nil, "a/prog.go", false},
		{"empty allow list admits", nil, []string{".exe"}, "a/prog.go", true},
		{"deny list member", nil, []string{".exe"}, "a/run.exe", false},
		{"deny wins over allow", []string{".sh"}, []string{".sh"}, "a/run.sh", false},
		{"case insensitive suffix", []string{".txt"}, nil, "a/NOTES.TXT", true},
		{"case insensitive deny", nil, []string{".exe"}, "a/RUN.EXE", false},
		{"no extension with allow list", []string{".txt"}, nil, "a/Makefile", false},
		{"no extension without allow list", nil, []string{".exe"}, "a/Makefile", true},
		{"extension without dot in config", []string{"txt"}, nil, "a/notes.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, []string{dir}, tt.allow, tt.deny, 1024)
			assert.Equal(t, tt.want, s.IsExtensionAllowed(tt.path))
		})
	}
}

func TestLimitFor(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, []string{dir}, nil, nil, 1000)

	assert.Equal(t, int64(1000), s.LimitFor(0), "zero override uses ceiling")
	assert.Equal(t, int64(1000), s.LimitFor(-5), "negative override uses ceiling")
	assert.Equal(t, int64(500), s.LimitFor(500), "smaller override honored")
	assert.Equal(t, int64(1000), s.LimitFor(5000), "override clamps at ceiling")
	assert.Equal(t, int64(1000), s.LimitFor(1000), "override at ceiling honored")
}

func TestRootsReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, []string{dir}, nil, nil, 1024)

	roots := s.Roots()
	require.Len(t, roots, 1)
	roots[0] = "/tampered"

	assert.NotEqual(t, "/tampered", s.Roots()[0], "mutating the returned slice must not affect the store")
}
