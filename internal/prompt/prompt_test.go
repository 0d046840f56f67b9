package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"versegen/internal/bible"
)

var dan244 = bible.Key{Book: 27, Chapter: 2, Verse: 44}

func TestLookup(t *testing.T) {
	en, err := Lookup("en")
	require.NoError(t, err)
	assert.Equal(t, bible.English, en.Language)

	zh, err := Lookup("zh")
	require.NoError(t, err)
	assert.Equal(t, bible.TraditionalChinese, zh.Language)

	_, err = Lookup("fr")
	assert.ErrorIs(t, err, ErrUnknownProfile)

	assert.Equal(t, []string{"en", "zh"}, Names())
}

func TestBuild_English(t *testing.T) {
	en, err := Lookup("en")
	require.NoError(t, err)

	got, err := en.Build(Input{
		Key:         dan244,
		Verse:       "In the days of those kings the God of heaven will raise up an everlasting kingdom.",
		Interlinear: "וּֽבְיוֹמֵיה֡וֹן and in days",
		Morphology:  "Word: וּֽבְיוֹמֵיה֡וֹן | Lexeme: יוֹם | Morphology: noun | Interlinear: and in days",
	})
	require.NoError(t, err)

	want := `# Write a detailed commentary on the following Bible verse:

## Daniel 2:44
In the days of those kings the God of heaven will raise up an everlasting kingdom.

## Interlinear (Hebrew with literal translation):
וּֽבְיוֹמֵיה֡וֹן and in days

## Morphological data of each word:
Word: וּֽבְיוֹמֵיה֡וֹן | Lexeme: יוֹם | Morphology: noun | Interlinear: and in days

Commentary:`
	assert.Equal(t, want, got)
}

func TestBuild_ChineseAddsDirective(t *testing.T) {
	zh, err := Lookup("zh")
	require.NoError(t, err)

	got, err := zh.Build(Input{Key: bible.Key{Book: 41, Chapter: 9, Verse: 43}, Verse: "倘若你一隻手叫你跌倒"})
	require.NoError(t, err)

	assert.Contains(t, got, "## 馬可福音 9:43\n倘若你一隻手叫你跌倒")
	assert.Contains(t, got, "## Interlinear (Greek with literal translation):")
	assert.Contains(t, got, "聖經註釋：\n\n# Response Language\n\nTraditional Chinese 繁體中文\n\n请使用繁體中文")
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestFinish(t *testing.T) {
	en, err := Lookup("en")
	require.NoError(t, err)

	got := en.Finish(dan244, "Compare Revelation 11:15.")
	assert.Equal(t, "# Commentary - Daniel 2:44\n\nCompare <ref onclick=\"bcv(66,11,15)\">Revelation 11:15</ref>.", got)

	zh, err := Lookup("zh")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(zh.Finish(dan244, "內容"), "# 聖經註釋 - 但以理書 2:44\n\n"))
}

func TestLoadProfiles_DefaultsNameFromFile(t *testing.T) {
	fsys := fstest.MapFS{
		"profiles/xx.yaml": {Data: []byte("language: en\nheading: Notes\n")},
	}
	got, err := loadProfiles(fsys)
	require.NoError(t, err)
	require.Contains(t, got, "xx")
	assert.Equal(t, "Notes", got["xx"].Heading)
}

func TestLoadProfiles_BadYAML(t *testing.T) {
	fsys := fstest.MapFS{"profiles/bad.yaml": {Data: []byte("name: [")}}
	_, err := loadProfiles(fsys)
	assert.Error(t, err)
}

func TestSystem(t *testing.T) {
	def, err := System("")
	require.NoError(t, err)
	assert.Contains(t, def, "[NO_CONTENT]")

	named, err := System("commentary")
	require.NoError(t, err)
	assert.Equal(t, def, named)

	path := filepath.Join(t.TempDir(), "custom.md")
	require.NoError(t, os.WriteFile(path, []byte("  Be brief.\n"), 0644))
	custom, err := System(path)
	require.NoError(t, err)
	assert.Equal(t, "Be brief.", custom)

	_, err = System(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}
