package engine

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"fsgate/internal/logging"
	"fsgate/internal/policy"
	"fsgate/pkg/pathsec"
)

// Operation names as exposed at the engine boundary. External callers
// address the six operations by these identifiers.
const (
	OpRead   = "read_file"
	OpWrite  = "write_file"
	OpList   = "list_directory"
	OpSearch = "search_files"
	OpInfo   = "get_file_info"
	OpHash   = "get_file_hash"
)

// Engine executes sandboxed file operations under an immutable policy.
type Engine struct {
	policy *policy.Store
	log    *logging.AppLogger
}

// New creates an Engine. A nil logger falls back to the process default.
func New(store *policy.Store, logger *logging.AppLogger) *Engine {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Engine{policy: store, log: logger}
}

// resolveAllowed canonicalizes a raw path and checks it against the policy.
// It is the shared head of every operation's precondition chain.
func (e *Engine) resolveAllowed(op, raw string) (string, *OpError) {
	canonical, err := pathsec.Canonicalize(raw)
	if err != nil {
		return "", wrapErr(op, raw, KindResolveFailed, err)
	}
	if !e.policy.IsPathAllowed(canonical) {
		e.log.Debug("Path denied by policy", "op", op, "path", raw)
		return "", opErr(op, raw, KindAccessDenied)
	}
	return canonical, nil
}

// Read returns the contents of a file inside the sandbox. maxBytes
// overrides the configured size limit for this call; non-positive means
// "use the configured ceiling", and the override can never raise the limit
// above it.
func (e *Engine) Read(path string, maxBytes int64) (*ReadResult, error) {
	canonical, oerr := e.resolveAllowed(OpRead, path)
	if oerr != nil {
		return nil, oerr
	}

	fi, err := os.Stat(canonical)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, opErr(OpRead, path, KindNotFound)
		}
		return nil, wrapErr(OpRead, path, KindReadFailed, err)
	}
	if fi.IsDir() {
		return nil, opErr(OpRead, path, KindNotAFile)
	}
	if !e.policy.IsExtensionAllowed(canonical) {
		return nil, opErr(OpRead, path, KindExtensionDenied)
	}

	limit := e.policy.LimitFor(maxBytes)
	if fi.Size() > limit {
		return nil, opErr(OpRead, path, KindTooLarge)
	}

	data, err := os.ReadFile(canonical)
	if err != nil {
		return nil, wrapErr(OpRead, path, KindReadFailed, err)
	}

	result := &ReadResult{
		Size:     int64(len(data)),
		FileInfo: e.fileInfo(canonical, fi),
	}
	if utf8.Valid(data) {
		result.Content = string(data)
		result.ContentKind = "text"
		result.Encoding = "utf-8"
	} else {
		result.Content = binaryMarker(len(data))
		result.ContentKind = "binary"
		result.Encoding = "binary"
	}

	e.log.Debug("Read file", "path", canonical, "size", result.Size, "kind", result.ContentKind)
	return result, nil
}

// Write stores content at a path inside the sandbox, creating parent
// directories when createDirs is set. Existing files are overwritten.
func (e *Engine) Write(path, content string, createDirs bool) (*WriteResult, error) {
	canonical, oerr := e.resolveAllowed(OpWrite, path)
	if oerr != nil {
		return nil, oerr
	}

	if !e.policy.IsExtensionAllowed(canonical) {
		return nil, opErr(OpWrite, path, KindExtensionDenied)
	}
	if int64(len(content)) > e.policy.MaxBytes() {
		return nil, opErr(OpWrite, path, KindTooLarge)
	}

	parent := filepath.Dir(canonical)
	if createDirs {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, wrapErr(OpWrite, path, KindWriteFailed, err)
		}
	}
	if pi, err := os.Stat(parent); err != nil || !pi.IsDir() {
		return nil, opErr(OpWrite, path, KindParentMissing)
	}

	if err := os.WriteFile(canonical, []byte(content), 0o644); err != nil {
		return nil, wrapErr(OpWrite, path, KindWriteFailed, err)
	}

	fi, err := os.Stat(canonical)
	if err != nil {
		return nil, wrapErr(OpWrite, path, KindWriteFailed, err)
	}

	e.log.Debug("Wrote file", "path", canonical, "bytes", len(content))
	return &WriteResult{
		BytesWritten: int64(len(content)),
		FileInfo:     e.fileInfo(canonical, fi),
	}, nil
}

// Info returns the metadata of a file or directory inside the sandbox.
func (e *Engine) Info(path string) (*FileInfo, error) {
	canonical, oerr := e.resolveAllowed(OpInfo, path)
	if oerr != nil {
		return nil, oerr
	}

	fi, err := os.Stat(canonical)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, opErr(OpInfo, path, KindNotFound)
		}
		return nil, wrapErr(OpInfo, path, KindReadFailed, err)
	}

	info := e.fileInfo(canonical, fi)
	return &info, nil
}
