package diff

import "strings"

// FirstChangedPosition returns the diff position of the first added or
// removed line across a file's hunks. Positions are 1-based and count diff
// lines from the first hunk header: the line directly below the first "@@"
// is position 1 and every subsequent hunk header occupies a position slot of
// its own, matching the review API's coordinate. When no hunk contains a
// changed line, ok is false and the caller must drop the finding instead of
// guessing an anchor.
func FirstChangedPosition(hunks []Hunk) (position int, ok bool) {
	pos := 0
	for i, hunk := range hunks {
		if i > 0 {
			pos++ // the hunk header itself
		}
		for _, line := range hunk.Lines {
			pos++
			if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
				return pos, true
			}
		}
	}
	return 0, false
}
