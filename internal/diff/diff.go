// Package diff parses unified diff text into per-file hunk structures and
// maps changed lines to the diff-position coordinate used by the review API.
package diff

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	fileHeaderRegex = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)
)

// Hunk is one contiguous change region of a unified diff. Lines keep their
// original order and prefixes (+, - or a context space); ordering is what
// position mapping relies on.
type Hunk struct {
	// SourceStartLine is the 1-based start line in the pre-change file.
	SourceStartLine int
	// TargetStartLine is the 1-based start line in the post-change file.
	TargetStartLine int
	// Lines are the raw diff lines of the hunk, headers excluded.
	Lines []string
}

// FileDiff holds the parsed changes for a single file. Path is always the
// post-change ("b/") side. Text is the file's retained diff text: hunk
// headers, hunk lines and any metadata lines, joined by newlines. A file
// section without hunks (binary or mode-only change, pure rename) has an
// empty hunk list and empty Text.
type FileDiff struct {
	Path  string
	Hunks []Hunk
	Text  string
}

// Parse turns raw unified diff text into an ordered list of FileDiff, one
// per "diff --git" header, in source order. It never fails: unparsable lines
// are preserved verbatim in the enclosing file's Text. A hunk header seen
// before any file header opens an anonymous file section, so re-parsing a
// FileDiff's Text reproduces the same hunk structure.
func Parse(diffText string) []FileDiff {
	// A trailing newline terminates the last line; it is not a diff line.
	diffText = strings.TrimSuffix(diffText, "\n")
	if diffText == "" {
		return nil
	}

	var (
		files   []FileDiff
		current *fileSection
	)

	flush := func() {
		if current != nil {
			files = append(files, current.finish())
			current = nil
		}
	}

	for _, line := range strings.Split(diffText, "\n") {
		if m := fileHeaderRegex.FindStringSubmatch(line); m != nil {
			flush()
			current = &fileSection{path: m[2]}
			continue
		}

		if m := hunkHeaderRegex.FindStringSubmatch(line); m != nil {
			if current == nil {
				// Bare hunk without a file header; keep it addressable.
				current = &fileSection{}
			}
			// Regex guarantees the start lines are digits.
			src, _ := strconv.Atoi(m[1])
			tgt, _ := strconv.Atoi(m[2])
			current.hunks = append(current.hunks, Hunk{
				SourceStartLine: src,
				TargetStartLine: tgt,
			})
			current.text = append(current.text, line)
			continue
		}

		if current == nil {
			continue // preamble outside any file section
		}

		current.text = append(current.text, line)
		if n := len(current.hunks); n > 0 {
			hunk := &current.hunks[n-1]
			hunk.Lines = append(hunk.Lines, line)
		}
	}
	flush()

	return files
}

// fileSection accumulates one file's lines while scanning.
type fileSection struct {
	path  string
	hunks []Hunk
	text  []string
}

func (s *fileSection) finish() FileDiff {
	fd := FileDiff{Path: s.path, Hunks: s.hunks}
	if len(s.hunks) > 0 {
		fd.Text = strings.Join(s.text, "\n")
	}
	return fd
}
