package engine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// List returns the entries of a directory inside the sandbox, sorted by
// lower-cased name. Hidden (dot-prefixed) entries are skipped unless
// includeHidden is set. Entries whose metadata cannot be read are skipped
// rather than failing the whole listing.
func (e *Engine) List(dir string, includeHidden bool) (*ListResult, error) {
	canonical, oerr := e.resolveAllowed(OpList, dir)
	if oerr != nil {
		return nil, oerr
	}

	fi, err := os.Stat(canonical)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, opErr(OpList, dir, KindNotFound)
		}
		return nil, wrapErr(OpList, dir, KindReadFailed, err)
	}
	if !fi.IsDir() {
		return nil, opErr(OpList, dir, KindNotADirectory)
	}

	entries, err := os.ReadDir(canonical)
	if err != nil {
		return nil, wrapErr(OpList, dir, KindReadFailed, err)
	}

	result := &ListResult{Directory: canonical, Items: []FileInfo{}}
	for _, entry := range entries {
		if !includeHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		entryPath := filepath.Join(canonical, entry.Name())
		// Stat rather than entry.Info so symlinked entries report their
		// target's metadata, matching what a subsequent read would see.
		efi, err := os.Stat(entryPath)
		if err != nil {
			e.log.Debug("Skipping unreadable entry", "path", entryPath, "error", err)
			continue
		}

		info := e.fileInfo(entryPath, efi)
		result.Items = append(result.Items, info)
		if info.IsDir {
			result.Directories++
		} else {
			result.Files++
		}
	}

	sort.Slice(result.Items, func(i, j int) bool {
		return strings.ToLower(result.Items[i].Name) < strings.ToLower(result.Items[j].Name)
	})
	result.TotalItems = len(result.Items)

	return result, nil
}
