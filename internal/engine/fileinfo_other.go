//go:build !linux

package engine

import (
	"os"
	"time"
)

// createdTime falls back to the modification time on platforms where no
// portable creation timestamp is available.
func createdTime(fi os.FileInfo) time.Time {
	return fi.ModTime()
}
