// Package pathsec provides security-focused path canonicalization and
// containment primitives for sandboxed file access.
//
// The package solves two problems that every path-based policy check has:
//
//  1. A user-supplied path is not trustworthy until every symlink,
//     "." and ".." segment, and relative component has been resolved.
//     Canonicalize performs that resolution with a bounded number of
//     symlink hops, so a symlink cycle can never hang the caller.
//
//  2. Containment checks on raw string prefixes are wrong: "/allowed/foo"
//     must not be treated as a parent of "/allowed/foobar". Contained and
//     ContainedInAny perform directory-boundary-aware comparisons.
//
// Typical usage:
//
//	canonical, err := pathsec.Canonicalize(userPath)
//	if err != nil {
//	    return err
//	}
//	if !pathsec.ContainedInAny(canonical, allowedRoots) {
//	    return errAccessDenied
//	}
//
// All functions are pure with respect to process state; Canonicalize reads
// filesystem metadata (lstat/readlink) but never modifies anything.
package pathsec
