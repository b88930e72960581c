package driven

// ConfigStore is the flat key/value store behind the settings service.
// Keys use dot notation ("embedding.model"); values keep whatever type the
// backing format decoded, so readers must accept any numeric type.
// Set and Delete persist before returning.
type ConfigStore interface {
	Get(key string) (any, bool)

	// Keys lists stored keys in sorted order.
	Keys() []string

	Set(key string, value any) error

	// Delete removes key. Missing keys are not an error.
	Delete(key string) error
}
