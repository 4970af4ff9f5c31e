package pathsec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxSymlinkHops bounds how many symbolic links Canonicalize will follow
// before giving up. The value matches the traditional kernel ELOOP limit.
const maxSymlinkHops = 40

// ErrTooManyLinks is returned (wrapped in a *ResolveError) when symlink
// resolution exceeds maxSymlinkHops, which indicates a symlink cycle or a
// pathologically deep chain.
var ErrTooManyLinks = errors.New("too many levels of symbolic links")

// ResolveError describes a failure to canonicalize a path. It wraps the
// underlying cause so callers can inspect it with errors.Is/errors.As.
type ResolveError struct {
	// Path is the path as supplied by the caller.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve path %q: %v", e.Path, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Canonicalize resolves a user-supplied path to its canonical absolute form.
//
// The function:
//   - Expands a leading "~/" to the user's home directory
//   - Makes the path absolute against the current working directory
//   - Resolves every symlink component-by-component, following relative and
//     absolute targets, with a hard bound on the number of hops
//   - Collapses "." and ".." segments against the already-resolved prefix,
//     never lexically against unresolved symlinks
//
// The path does not have to exist: once a component is found to be missing,
// the remaining components are appended without further filesystem access
// (a missing directory cannot hide a symlink). This mirrors non-strict
// resolution so that callers can canonicalize a write target before
// creating it.
//
// Parameters:
//   - raw: The path to canonicalize (absolute, relative, or "~/"-prefixed)
//
// Returns:
//   - string: The canonical absolute path
//   - error: A *ResolveError on empty input, I/O faults, or symlink cycles
//
// Security considerations:
//   - Canonicalize must be called before any policy decision; a containment
//     check on an unresolved path is a path-traversal vulnerability
//   - Resolution is bounded; a symlink cycle yields ErrTooManyLinks rather
//     than a hang
//
// Usage example:
//
//	canonical, err := pathsec.Canonicalize("../data/./notes.txt")
//	if err != nil {
//	    return fmt.Errorf("bad path: %w", err)
//	}
func Canonicalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ResolveError{Path: raw, Err: errors.New("path is empty")}
	}

	abs, err := filepath.Abs(ExpandPath(raw))
	if err != nil {
		return "", &ResolveError{Path: raw, Err: err}
	}

	hops := 0
	resolved, err := resolveWalk(abs, &hops)
	if err != nil {
		return "", &ResolveError{Path: raw, Err: err}
	}
	return resolved, nil
}

// resolveWalk resolves an absolute path one component at a time. The hop
// counter is shared across recursive calls so that chained symlinks cannot
// reset the bound.
func resolveWalk(path string, hops *int) (string, error) {
	sep := string(filepath.Separator)
	resolved := sep
	missing := false

	for _, comp := range strings.Split(path, sep) {
		switch comp {
		case "", ".":
			continue
		case "..":
			// The resolved prefix contains no symlinks, so stepping up
			// lexically is safe here (and only here).
			resolved = filepath.Dir(resolved)
			if missing {
				// Stepping up may land back on an existing directory, in
				// which case later components must be resolved again, not
				// appended lexically.
				if _, err := os.Lstat(resolved); err == nil {
					missing = false
				}
			}
			continue
		}

		next := filepath.Join(resolved, comp)
		if missing {
			resolved = next
			continue
		}

		info, err := os.Lstat(next)
		if err != nil {
			if os.IsNotExist(err) {
				missing = true
				resolved = next
				continue
			}
			return "", err
		}

		if info.Mode()&os.ModeSymlink != 0 {
			*hops++
			if *hops > maxSymlinkHops {
				return "", ErrTooManyLinks
			}

			target, err := os.Readlink(next)
			if err != nil {
				return "", err
			}
			if !filepath.IsAbs(target) {
				// Joined without cleaning: the target may itself contain
				// symlinks and ".." segments, which the recursive walk
				// resolves in order.
				target = resolved + sep + target
			}

			resolved, err = resolveWalk(target, hops)
			if err != nil {
				return "", err
			}
			continue
		}

		resolved = next
	}

	return resolved, nil
}

// Contained reports whether path sits at or below root. Both arguments must
// already be canonical absolute paths; the comparison is directory-boundary
// aware, so "/a/bc" is not contained in "/a/b".
//
// Parameters:
//   - path: Canonical absolute path to test
//   - root: Canonical absolute directory path
//
// Returns:
//   - bool: true if path equals root or is a descendant of root
//
// Usage example:
//
//	if !pathsec.Contained(canonical, "/srv/sandbox") {
//	    return errOutsideSandbox
//	}
func Contained(path, root string) bool {
	if root == "" {
		return false
	}
	sep := string(filepath.Separator)
	if root == sep {
		return strings.HasPrefix(path, sep)
	}
	root = strings.TrimSuffix(root, sep)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+sep)
}

// ContainedInAny reports whether path sits at or below any of the given
// roots. See Contained for the comparison rules.
func ContainedInAny(path string, roots []string) bool {
	for _, root := range roots {
		if Contained(path, root) {
			return true
		}
	}
	return false
}

// IsSymlink checks if a given path is a symbolic link. The path is examined
// with lstat so the link itself is inspected, not its target.
//
// Parameters:
//   - path: File path to check
//
// Returns:
//   - bool: true if the path is a symbolic link
//   - error: File system access errors
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// ExpandPath expands a path that starts with "~/" to the user's home
// directory. Paths without the prefix are returned unchanged, as is the
// input when the home directory cannot be determined.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
