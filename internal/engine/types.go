package engine

import "time"

// FileInfo is the metadata snapshot returned for files and directories.
// It is recomputed on every query and never cached.
type FileInfo struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Modified    time.Time `json:"modified"`
	Created     time.Time `json:"created"`
	IsFile      bool      `json:"is_file"`
	IsDir       bool      `json:"is_dir"`
	Permissions string    `json:"permissions"`
	ContentType string    `json:"content_type,omitempty"`
	Extension   string    `json:"extension,omitempty"`
}

// ReadResult is the success payload of a read operation.
type ReadResult struct {
	// Content holds the file text, or the opaque "<binary data: N bytes>"
	// marker when the bytes are not valid UTF-8.
	Content string `json:"content"`

	// ContentKind is "text" or "binary".
	ContentKind string `json:"content_type"`

	// Encoding is "utf-8" for text content, "binary" otherwise.
	Encoding string `json:"encoding"`

	Size     int64    `json:"size"`
	FileInfo FileInfo `json:"file_info"`
}

// WriteResult is the success payload of a write operation.
type WriteResult struct {
	BytesWritten int64    `json:"bytes_written"`
	FileInfo     FileInfo `json:"file_info"`
}

// ListResult is the success payload of a directory listing.
type ListResult struct {
	Directory   string     `json:"directory"`
	Items       []FileInfo `json:"items"`
	TotalItems  int        `json:"total_items"`
	Files       int        `json:"files"`
	Directories int        `json:"directories"`
}

// MatchKind distinguishes how a search entry matched.
type MatchKind string

const (
	MatchFilename MatchKind = "filename"
	MatchContent  MatchKind = "content"
)

// MatchingLine is one content-match location inside a file.
type MatchingLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// SearchMatch is a single search hit.
type SearchMatch struct {
	FileInfo
	MatchType MatchKind `json:"match_type"`

	// MatchingLines is populated for content matches only and is capped
	// at maxMatchingLines entries per file.
	MatchingLines []MatchingLine `json:"matching_lines,omitempty"`
}

// SearchResult is the success payload of a recursive search.
type SearchResult struct {
	SearchDirectory string        `json:"search_directory"`
	Pattern         string        `json:"pattern"`
	Matches         []SearchMatch `json:"matches"`
	TotalMatches    int           `json:"total_matches"`
}

// HashResult carries the digests of one pass over a file's bytes.
type HashResult struct {
	Path   string `json:"file"`
	Size   int64  `json:"size"`
	XXH64  string `json:"xxh64"`
	MD5    string `json:"md5"`
	SHA1   string `json:"sha1"`
	SHA256 string `json:"sha256"`
}
