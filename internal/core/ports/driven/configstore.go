package driven

// ConfigStore holds flat dot-notation settings ("linking.enabled").
// Values keep whatever Go type the backing format decodes to, so callers
// convert them; TOML integers arrive as int64 and arrays as []any.
type ConfigStore interface {
	// Get returns the value stored at key and whether it exists.
	Get(key string) (any, bool)

	// Set stores one value and persists it immediately.
	Set(key string, value any) error

	// SetMany stores every value in one write. Nothing is stored if the
	// write fails.
	SetMany(values map[string]any) error

	// Path returns where the configuration is persisted.
	Path() string
}
