package diff

import "testing"

func TestFirstChangedPosition(t *testing.T) {
	tests := []struct {
		name    string
		hunks   []Hunk
		wantPos int
		wantOK  bool
	}{
		{
			name: "Changed line is the first hunk line",
			hunks: []Hunk{
				{Lines: []string{"+added", " ctx"}},
			},
			wantPos: 1,
			wantOK:  true,
		},
		{
			name: "Changed line after a context line",
			hunks: []Hunk{
				{Lines: []string{" ctx", "+added", " ctx"}},
			},
			wantPos: 2,
			wantOK:  true,
		},
		{
			name: "Removal counts as a change",
			hunks: []Hunk{
				{Lines: []string{" ctx", "-removed"}},
			},
			wantPos: 2,
			wantOK:  true,
		},
		{
			name: "First change in the second hunk counts the header slot",
			hunks: []Hunk{
				{Lines: []string{" a", " b"}},
				{Lines: []string{" c", "+added"}},
			},
			// 2 lines + 1 header + 2 lines into the second hunk.
			wantPos: 5,
			wantOK:  true,
		},
		{
			name: "Context-only hunks produce no position",
			hunks: []Hunk{
				{Lines: []string{" a", " b"}},
				{Lines: []string{" c"}},
			},
			wantPos: 0,
			wantOK:  false,
		},
		{
			name:    "No hunks",
			hunks:   nil,
			wantPos: 0,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ok := FirstChangedPosition(tt.hunks)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if pos != tt.wantPos {
				t.Errorf("position = %d, want %d", pos, tt.wantPos)
			}
		})
	}
}
