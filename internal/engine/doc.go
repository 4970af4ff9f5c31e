// Package engine implements the sandboxed file-access operations: read,
// write, directory listing, recursive search, metadata inspection, and
// multi-algorithm hashing.
//
// Every operation follows the same shape: the raw path is canonicalized
// first (pkg/pathsec), the canonical path is checked against the immutable
// policy (internal/policy), and only then does any storage I/O happen.
// Failures never cross the boundary as panics; each one is an *OpError
// carrying a stable Kind the caller can dispatch on.
//
// Precondition checks run in a fixed order per operation, with policy
// checks strictly before existence and type checks. A denied path therefore
// never reveals whether it exists.
//
// The Engine holds no mutable state between calls and is safe for
// concurrent use.
package engine
