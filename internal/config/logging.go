package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`     // debug, info, warn, error
	Format   string `yaml:"format"`    // json, text
	ErrorLog string `yaml:"error_log"` // per-verse failure lines are appended here
	AuditLog string `yaml:"audit_log"` // JSON-lines run audit; empty disables
}
