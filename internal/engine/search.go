package engine

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fsgate/pkg/pathsec"
)

const (
	// maxSearchDepth bounds the recursive walk so deep or looping
	// directory structures cannot run away.
	maxSearchDepth = 20

	// maxMatchingLines caps how many matching lines are reported per file.
	maxMatchingLines = 10
)

// Search walks the subtree under root and reports every descendant whose
// name contains pattern (case-insensitive), plus, when includeContent is
// set, every readable text file whose content contains it. Each descendant
// is re-resolved and re-checked against the policy before it can match, so
// a symlink inside an allowed tree that points outside it is ignored.
// Faults on individual descendants are logged and skipped; they never abort
// the walk.
func (e *Engine) Search(root, pattern string, includeContent bool) (*SearchResult, error) {
	canonical, oerr := e.resolveAllowed(OpSearch, root)
	if oerr != nil {
		return nil, oerr
	}

	fi, err := os.Stat(canonical)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, opErr(OpSearch, root, KindNotFound)
		}
		return nil, wrapErr(OpSearch, root, KindReadFailed, err)
	}
	if !fi.IsDir() {
		return nil, opErr(OpSearch, root, KindNotADirectory)
	}

	w := &searchWalker{
		eng:            e,
		pattern:        strings.ToLower(pattern),
		includeContent: includeContent,
		visited:        make(map[string]bool),
		matches:        []SearchMatch{},
	}
	w.walk(canonical, 1)

	return &SearchResult{
		SearchDirectory: canonical,
		Pattern:         pattern,
		Matches:         w.matches,
		TotalMatches:    len(w.matches),
	}, nil
}

// searchWalker carries the state of one recursive search. The visited set
// is keyed by canonical directory path, which is what stops symlink loops.
type searchWalker struct {
	eng            *Engine
	pattern        string
	includeContent bool
	visited        map[string]bool
	matches        []SearchMatch
}

func (w *searchWalker) walk(dir string, depth int) {
	if depth > maxSearchDepth {
		return
	}
	if w.visited[dir] {
		return
	}
	w.visited[dir] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.eng.log.Debug("Skipping unreadable directory", "path", dir, "error", err)
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		canonical, err := pathsec.Canonicalize(entryPath)
		if err != nil {
			w.eng.log.Debug("Skipping unresolvable entry", "path", entryPath, "error", err)
			continue
		}
		// Re-check containment per entry: a symlink below an allowed root
		// may resolve to somewhere outside every root.
		if !w.eng.policy.IsPathAllowed(canonical) {
			w.eng.log.Debug("Skipping entry outside sandbox", "path", entryPath)
			continue
		}

		fi, err := os.Stat(canonical)
		if err != nil {
			w.eng.log.Debug("Skipping unreadable entry", "path", entryPath, "error", err)
			continue
		}

		w.inspect(entry.Name(), canonical, fi)

		if fi.IsDir() {
			w.walk(canonical, depth+1)
		}
	}
}

// inspect decides whether one descendant matches and records it. A content
// match takes precedence over a filename match on the same entry.
func (w *searchWalker) inspect(name, canonical string, fi os.FileInfo) {
	var kind MatchKind
	var lines []MatchingLine

	if strings.Contains(strings.ToLower(name), w.pattern) {
		kind = MatchFilename
	}

	if w.includeContent && fi.Mode().IsRegular() &&
		w.eng.policy.IsExtensionAllowed(canonical) &&
		fi.Size() <= w.eng.policy.MaxBytes() {
		if data, err := os.ReadFile(canonical); err == nil && utf8.Valid(data) {
			content := string(data)
			if strings.Contains(strings.ToLower(content), w.pattern) {
				kind = MatchContent
				lines = matchingLines(content, w.pattern)
			}
		}
	}

	if kind == "" {
		return
	}

	w.matches = append(w.matches, SearchMatch{
		FileInfo:      w.eng.fileInfo(canonical, fi),
		MatchType:     kind,
		MatchingLines: lines,
	})
}

// matchingLines returns up to maxMatchingLines (line number, trimmed text)
// pairs for lines containing the lower-cased pattern.
func matchingLines(content, pattern string) []MatchingLine {
	var out []MatchingLine
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(strings.ToLower(line), pattern) {
			out = append(out, MatchingLine{Line: i + 1, Text: strings.TrimSpace(line)})
			if len(out) == maxMatchingLines {
				break
			}
		}
	}
	return out
}
