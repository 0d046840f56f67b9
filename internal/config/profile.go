package config

import "sort"

// ProfileDefaults are the settings a language profile implies unless the
// config overrides them.
type ProfileDefaults struct {
	DatabasePath  string
	Catalog       string
	Acceptability string
}

var profiles = map[string]ProfileDefaults{
	"en": {DatabasePath: "ai_commentary.db", Catalog: "NET", Acceptability: "strict"},
	"zh": {DatabasePath: "ai_commentary_zh.db", Catalog: "CUV", Acceptability: "lenient"},
}

// ProfileNames returns the known profile names, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
