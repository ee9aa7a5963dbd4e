package store

import "errors"

// ErrKeyNotFound is returned by KV.Get for a key that was never written.
var ErrKeyNotFound = errors.New("key not found")

// KV is the flat key/value persistence the Store writes collections to.
// Put must replace the whole value atomically.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}
