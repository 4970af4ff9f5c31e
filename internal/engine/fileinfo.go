package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// fileInfo builds the metadata snapshot for an already-stat'ed canonical
// path. Content-type sniffing reads only the file header and is skipped for
// anything that is not a regular file.
func (e *Engine) fileInfo(canonical string, fi os.FileInfo) FileInfo {
	info := FileInfo{
		Name:        filepath.Base(canonical),
		Path:        canonical,
		Size:        fi.Size(),
		Modified:    fi.ModTime(),
		Created:     createdTime(fi),
		IsFile:      fi.Mode().IsRegular(),
		IsDir:       fi.IsDir(),
		Permissions: fmt.Sprintf("%03o", fi.Mode().Perm()),
		Extension:   strings.ToLower(filepath.Ext(canonical)),
	}

	if info.IsFile {
		if mt, err := mimetype.DetectFile(canonical); err == nil {
			info.ContentType = mt.String()
		}
	}

	return info
}

func binaryMarker(n int) string {
	return fmt.Sprintf("<binary data: %d bytes>", n)
}
