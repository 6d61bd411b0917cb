package cmd

import (
	"testing"

	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChapterKey(t *testing.T) {
	key, err := parseChapterKey("12", "3")
	require.NoError(t, err)
	assert.Equal(t, data.ChapterKey{MangaID: 12, Index: 3}, key)

	_, err = parseChapterKey("abc", "3")
	assert.ErrorContains(t, err, "invalid manga id")

	_, err = parseChapterKey("12", "x")
	assert.ErrorContains(t, err, "invalid chapter index")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a very long title", 10, "a very ..."},
		{"ワンピース・ストーリー", 6, "ワンピ..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateString(tt.in, tt.maxLen))
	}
}

func TestFilterSources(t *testing.T) {
	sources := []data.Source{
		{ID: 1, Lang: "en"},
		{ID: 2, Lang: "ja"},
		{ID: 3, Lang: "es"},
		{ID: 4, Lang: "en"},
	}

	got := filterSources(sources, []string{"en", "es"})
	ids := make([]int64, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{1, 3, 4}, ids)
	assert.Empty(t, filterSources(sources, nil))
}

func TestRootCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"sources"},
		{"languages"},
		{"browse"},
		{"manga"},
		{"chapters"},
		{"chapter", "show"},
		{"chapter", "update"},
		{"chapter", "meta"},
		{"download", "queue"},
		{"download", "delete"},
		{"export"},
		{"tabs"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
