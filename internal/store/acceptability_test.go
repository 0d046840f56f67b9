package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptable(t *testing.T) {
	tests := []struct {
		name    string
		content string
		strict  bool
		lenient bool
	}{
		{"summary marker", "# Commentary\n\n## Summary\nDone.", true, true},
		{"conclusion marker", "... In Conclusion, the kingdom stands.", true, true},
		{"curly invitation", "If you’d like, I can expand on verse 45.", true, true},
		{"straight invitation", "If you'd like, I can expand on verse 45.", true, true},
		{"sentinel beats markers", "## Summary\nnothing\n[NO_CONTENT]", false, false},
		{"sentinel with trailing space", "## Conclusion\n[NO_CONTENT]  \n\t", false, false},
		{"no marker no sentinel", "The verse was cut off mid-sent", false, true},
		{"sentinel mid-text only", "[NO_CONTENT] was earlier. Summary follows.", true, true},
		{"empty", "", false, true},
		{"chinese without markers", "# 聖經註釋 - 但以理書 2:44\n\n這節經文……", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.strict, Acceptable(ModeStrict, tt.content), "strict")
			assert.Equal(t, tt.lenient, Acceptable(ModeLenient, tt.content), "lenient")
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, m)

	m, err = ParseMode("lenient")
	require.NoError(t, err)
	assert.Equal(t, ModeLenient, m)

	_, err = ParseMode("picky")
	assert.Error(t, err)
}
