package persist

import "errors"

// Port is the persistence capability the state store calls synchronously.
type Port interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Persisted keys.
const (
	KeyView      = "currentView"
	KeyProductID = "currentProductId"
	KeyCart      = "cart"
	KeyUser      = "user"
	KeyToken     = "token"
)

// Keys lists every key the state store owns.
var Keys = []string{KeyView, KeyProductID, KeyCart, KeyUser, KeyToken}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("persist: store is closed")

// Clear deletes every key in keys, continuing past failures.
// Returns the first error encountered.
func Clear(p Port, keys ...string) error {
	var first error
	for _, k := range keys {
		if err := p.Delete(k); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Nop discards writes and reports every key as absent.
type Nop struct{}

func (Nop) Get(string) (string, bool, error) { return "", false, nil }
func (Nop) Set(string, string) error         { return nil }
func (Nop) Delete(string) error              { return nil }
