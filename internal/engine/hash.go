package engine

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Hash computes the digests of a file inside the sandbox in a single
// streaming pass: a fast xxhash-64 checksum plus MD5, SHA-1, and SHA-256.
// maxBytes has the same override semantics as Read.
func (e *Engine) Hash(path string, maxBytes int64) (*HashResult, error) {
	canonical, oerr := e.resolveAllowed(OpHash, path)
	if oerr != nil {
		return nil, oerr
	}

	fi, err := os.Stat(canonical)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, opErr(OpHash, path, KindNotFound)
		}
		return nil, wrapErr(OpHash, path, KindReadFailed, err)
	}
	if fi.IsDir() {
		return nil, opErr(OpHash, path, KindNotAFile)
	}

	limit := e.policy.LimitFor(maxBytes)
	if fi.Size() > limit {
		return nil, opErr(OpHash, path, KindTooLarge)
	}

	f, err := os.Open(canonical)
	if err != nil {
		return nil, wrapErr(OpHash, path, KindReadFailed, err)
	}
	defer f.Close()

	fast := xxhash.New()
	m5 := md5.New()
	s1 := sha1.New()
	s256 := sha256.New()

	n, err := io.Copy(io.MultiWriter(fast, m5, s1, s256), f)
	if err != nil {
		return nil, wrapErr(OpHash, path, KindReadFailed, err)
	}

	e.log.Debug("Hashed file", "path", canonical, "bytes", n)
	return &HashResult{
		Path:   canonical,
		Size:   n,
		XXH64:  fmt.Sprintf("%016x", fast.Sum64()),
		MD5:    hex.EncodeToString(m5.Sum(nil)),
		SHA1:   hex.EncodeToString(s1.Sum(nil)),
		SHA256: hex.EncodeToString(s256.Sum(nil)),
	}, nil
}
