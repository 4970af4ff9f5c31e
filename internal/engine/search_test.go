package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchNames(res *SearchResult) []string {
	names := make([]string, 0, len(res.Matches))
	for _, m := range res.Matches {
		names = append(names, m.Name)
	}
	return names
}

func TestSearchByFilename(t *testing.T) {
	s := newSandbox(t, nil, nil, defaultLimit)
	s.write(t, "report-2024.txt", "annual numbers")
	s.write(t, "sub/REPORT-old.md", "archive")
	s.write(t, "unrelated.txt", "nothing here")

	res, err := s.eng.Search(s.root, "report", false)
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalMatches, "filename match is case-insensitive and recursive")
	assert.ElementsMatch(t, []string{"report-2024.txt", "REPORT-old.md"}, matchNames(res))
	for _, m := range res.Matches {
		assert.Equal(t, MatchFilename, m.MatchType)
		assert.Empty(t, m.MatchingLines)
	}
}

func TestSearchContentPrecedence(t *testing.T) {
	s := newSandbox(t, nil, nil, defaultLimit)
	// Name and content both match: the content kind wins.
	s.write(t, "alpha.txt", "alpha line\nplain line\n")
	// Only content matches.
	s.write(t, "beta.txt", "mentions alpha once")
	// Only name matches.
	s.write(t, "alpha.log", "nothing relevant")

	res, err := s.eng.Search(s.root, "alpha", true)
	require.NoError(t, err)
	require.Equal(t, 3, res.TotalMatches)

	kinds := map[string]MatchKind{}
	for _, m := range res.Matches {
		kinds[m.Name] = m.MatchType
	}
	assert.Equal(t, MatchContent, kinds["alpha.txt"])
	assert.Equal(t, MatchContent, kinds["beta.txt"])
	assert.Equal(t, MatchFilename, kinds["alpha.log"])
}

func TestSearchMatchingLinesCap(t *testing.T) {
	s := newSandbox(t, nil, nil, defaultLimit)

	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("needle appears here\n")
	}
	s.write(t, "haystack.txt", b.String())

	res, err := s.eng.Search(s.root, "needle", true)
	require.NoError(t, err)
	require.Equal(t, 1, res.TotalMatches)

	match := res.Matches[0]
	assert.Equal(t, MatchContent, match.MatchType)
	assert.Len(t, match.MatchingLines, 10, "matching lines are capped per file")
	assert.Equal(t, 1, match.MatchingLines[0].Line)
	assert.Equal(t, 10, match.MatchingLines[9].Line)
}

func TestSearchSkipsEscapingSymlinks(t *testing.T) {
	s := newSandbox(t, nil, nil, defaultLimit)
	s.write(t, "inside-needle.txt", "x")

	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "needle-out.txt"), []byte("x"), 0o644))
	mustSymlink(t, outside, filepath.Join(s.root, "needle-dir"))

	res, err := s.eng.Search(s.root, "needle", false)
	require.NoError(t, err)

	// The escaping symlinked directory and everything behind it is
	// invisible, even though its own name matches.
	assert.Equal(t, []string{"inside-needle.txt"}, matchNames(res))
}

func TestSearchSymlinkLoopTerminates(t *testing.T) {
	s := newSandbox(t, nil, nil, defaultLimit)
	sub := s.mkdir(t, "sub")
	s.write(t, "sub/needle.txt", "x")
	mustSymlink(t, sub, filepath.Join(sub, "loop"))

	res, err := s.eng.Search(s.root, "needle", false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalMatches, "loop must not duplicate or hang")
}

func TestSearchContentRespectsPolicy(t *testing.T) {
	s := newSandbox(t, []string{".txt"}, []string{".sh"}, 32)
	s.write(t, "plain.txt", "needle inside")
	s.write(t, "script.sh", "needle inside")                     // denied extension
	s.write(t, "oversize.txt", strings.Repeat("needle ", 10))    // over the ceiling
	s.write(t, "needle.sh", "clean body")                        // name still matches

	res, err := s.eng.Search(s.root, "needle", true)
	require.NoError(t, err)

	kinds := map[string]MatchKind{}
	for _, m := range res.Matches {
		kinds[m.Name] = m.MatchType
	}
	assert.Equal(t, MatchContent, kinds["plain.txt"])
	assert.Equal(t, MatchFilename, kinds["needle.sh"],
		"filename matching ignores the extension policy; content scanning honors it")
	assert.NotContains(t, kinds, "script.sh")
	assert.NotContains(t, kinds, "oversize.txt")
}

func TestSearchSkipsBinaryContent(t *testing.T) {
	s := newSandbox(t, nil, nil, defaultLimit)
	path := filepath.Join(s.root, "blob.log")
	require.NoError(t, os.WriteFile(path, append([]byte{0xff, 0xfe}, []byte("needle")...), 0o644))

	res, err := s.eng.Search(s.root, "needle", true)
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalMatches, "non-UTF-8 content is never scanned")
}

func TestSearchFailureKinds(t *testing.T) {
	s := newSandbox(t, nil, nil, defaultLimit)
	s.write(t, "file.txt", "x")

	_, err := s.eng.Search("/etc", "x", false)
	assert.Equal(t, KindAccessDenied, KindOf(err))

	_, err = s.eng.Search(filepath.Join(s.root, "missing"), "x", false)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = s.eng.Search(filepath.Join(s.root, "file.txt"), "x", false)
	assert.Equal(t, KindNotADirectory, KindOf(err))
}
