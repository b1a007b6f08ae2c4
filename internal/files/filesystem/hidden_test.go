package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHiddenMatch(t *testing.T) {
	tests := []struct {
		pattern string
		match   string
		want    bool
	}{
		{"fixtures/*", "fixtures/users.json", false},
		{"fixtures/*", "fixtures/.DS_Store", true},
		{"fixtures/**/*.json", "fixtures/.git/x.json", true},
		{"fixtures/**/*.json", "fixtures/a/b.json", false},
		{"fixtures/.*", "fixtures/.DS_Store", false},
		{"fixtures/.seed/*.json", "fixtures/.seed/a.json", false},
		{"fixtures/.seed/*", "fixtures/.seed/.tmp", true},
		{"./fixtures/*", "fixtures/a.json", false},
		{"../shared/*.yml", "../shared/a.yml", false},
		{"/home/me/.config/dbseed/*.json", "/home/me/.config/dbseed/a.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.match, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHiddenMatch(tt.pattern, tt.match))
		})
	}
}
