package config

// StoreConfig configures the commentary database.
type StoreConfig struct {
	// DatabasePath overrides the profile's database file.
	DatabasePath string `yaml:"database_path,omitempty"`

	// Acceptability overrides the profile's mode: strict or lenient.
	Acceptability string `yaml:"acceptability,omitempty"`

	// UniqueKey adds a unique index on (Book, Chapter, Verse) and switches
	// writes to a single upsert statement. Fails on stores that already
	// hold duplicate rows.
	UniqueKey bool `yaml:"unique_key"`
}

// ReferenceConfig locates the read-only reference databases.
type ReferenceConfig struct {
	BibleDir    string `yaml:"bible_dir"`
	Catalog     string `yaml:"catalog,omitempty"` // verse catalog bible, defaults per profile
	Interlinear string `yaml:"interlinear"`
	Morphology  string `yaml:"morphology"`
}
