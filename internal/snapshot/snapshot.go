// Package snapshot persists the storefront state slices as independent
// key-value blobs: session, bag, favorites, and order history each get
// their own key, written on every change and read once at startup.
package snapshot

import "encoding/json"

// Well-known snapshot keys. Each slice of state is mirrored independently
// so a corrupt or missing slice never takes the others down with it.
const (
	KeySession   = "session"
	KeyBag       = "bag"
	KeyFavorites = "favorites"
	KeyOrders    = "orders"
)

// Store is a passive blob store. A missing key is (nil, false, nil) —
// absence is "empty", never an error.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, data []byte) error
	Delete(key string) error
}

// Load reads and unmarshals the value under key into v. It returns false
// when the key is absent, leaving v untouched.
func Load(s Store, key string, v any) (bool, error) {
	data, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Save marshals v and writes it under key.
func Save(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(key, data)
}
