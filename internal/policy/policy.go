// Package policy holds the immutable access policy for the file engine:
// the set of allowed root directories, the extension allow/deny lists, and
// the size ceiling. A Store is built once at startup from configuration and
// answers pure, side-effect-free questions afterwards; changing policy
// means building a new Store.
package policy

import (
	"fmt"
	"path/filepath"
	"strings"

	"fsgate/pkg/pathsec"
)

// Store is the engine's access policy. All fields are fixed at
// construction, so a single Store is safe for concurrent use.
type Store struct {
	roots    []string
	allowExt map[string]struct{}
	denyExt  map[string]struct{}
	maxBytes int64
}

// New builds a Store from configuration values.
//
// Every root is canonicalized before being stored so that containment
// checks compare resolved paths only. Extensions are normalized to a
// lower-cased ".ext" form. maxBytes is both the default size limit and the
// hard ceiling for per-call overrides.
func New(roots []string, allowExts, denyExts []string, maxBytes int64) (*Store, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("at least one allowed root directory is required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("size ceiling must be positive, got %d", maxBytes)
	}

	s := &Store{
		allowExt: make(map[string]struct{}, len(allowExts)),
		denyExt:  make(map[string]struct{}, len(denyExts)),
		maxBytes: maxBytes,
	}

	for _, root := range roots {
		canonical, err := pathsec.Canonicalize(root)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed root %q: %w", root, err)
		}
		s.roots = append(s.roots, canonical)
	}

	for _, ext := range allowExts {
		s.allowExt[normalizeExt(ext)] = struct{}{}
	}
	for _, ext := range denyExts {
		s.denyExt[normalizeExt(ext)] = struct{}{}
	}

	return s, nil
}

// normalizeExt lower-cases an extension and guarantees a leading dot, so
// config files may list either "txt" or ".txt".
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// IsPathAllowed reports whether the given canonical path sits inside one of
// the allowed roots. The caller must canonicalize the path first; this
// method never touches the filesystem.
func (s *Store) IsPathAllowed(canonicalPath string) bool {
	return pathsec.ContainedInAny(canonicalPath, s.roots)
}

// IsExtensionAllowed reports whether the path's extension passes the
// extension policy. The deny list is consulted first and always wins; the
// allow list only restricts when it is non-empty.
func (s *Store) IsExtensionAllowed(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, denied := s.denyExt[ext]; denied {
		return false
	}
	if len(s.allowExt) == 0 {
		return true
	}
	_, ok := s.allowExt[ext]
	return ok
}

// MaxBytes returns the configured size ceiling.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// LimitFor returns the effective size limit for an operation. A
// non-positive override means "use the configured ceiling"; a positive one
// is honored but clamped so it can never exceed the ceiling.
func (s *Store) LimitFor(override int64) int64 {
	if override <= 0 || override > s.maxBytes {
		return s.maxBytes
	}
	return override
}

// Roots returns a copy of the canonical allowed roots.
func (s *Store) Roots() []string {
	out := make([]string, len(s.roots))
	copy(out, s.roots)
	return out
}
