package profiles

// Loader loads style profiles by key.
type Loader interface {
	// Load returns the profile stored under key.
	// Returns ErrProfileNotFound if it does not exist and ErrInvalidKey for
	// unsafe keys.
	Load(key string) (Profile, error)

	// Keys lists the available profile keys in sorted order.
	Keys() ([]string, error)
}
