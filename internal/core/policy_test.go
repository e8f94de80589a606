package core

import "testing"

func TestRepoPolicy_AllowsPath(t *testing.T) {
	tests := []struct {
		name   string
		policy RepoPolicy
		path   string
		want   bool
	}{
		{
			name:   "Empty policy allows everything",
			policy: RepoPolicy{},
			path:   "src/main.go",
			want:   true,
		},
		{
			name:   "Excluded prefix is skipped",
			policy: RepoPolicy{ExcludePaths: []string{"src/docs"}},
			path:   "src/docs/readme.md",
			want:   false,
		},
		{
			name:   "Non-matching exclude allows",
			policy: RepoPolicy{ExcludePaths: []string{"vendor/"}},
			path:   "src/main.go",
			want:   true,
		},
		{
			name:   "Include list restricts",
			policy: RepoPolicy{IncludePaths: []string{"src/", "cmd/"}},
			path:   "docs/guide.md",
			want:   false,
		},
		{
			name:   "Include list matches",
			policy: RepoPolicy{IncludePaths: []string{"src/", "cmd/"}},
			path:   "cmd/server/main.go",
			want:   true,
		},
		{
			name: "Exclude wins over include",
			policy: RepoPolicy{
				ExcludePaths: []string{"src/docs"},
				IncludePaths: []string{"src/"},
			},
			path: "src/docs/readme.md",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.AllowsPath(tt.path); got != tt.want {
				t.Errorf("AllowsPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDefaultRepoPolicy(t *testing.T) {
	p := DefaultRepoPolicy()
	if p.ReviewLanguage != "english" {
		t.Errorf("ReviewLanguage = %q, want english", p.ReviewLanguage)
	}
	if len(p.ExcludePaths) != 0 || len(p.IncludePaths) != 0 || p.CustomPrompt != "" {
		t.Error("default policy should have no path rules and no custom prompt")
	}
}
