package store

import (
	"fmt"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// Disk is a KV backed by one file per key in a flat directory.
type Disk struct {
	d *diskv.Diskv
}

// OpenDisk returns a Disk rooted at basePath. Writes go through a temp
// directory and are renamed into place.
func OpenDisk(basePath string) *Disk {
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		TempDir:      filepath.Join(basePath, ".tmp"),
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

// Get returns the blob stored under key, or ErrKeyNotFound.
func (k *Disk) Get(key string) ([]byte, error) {
	if !k.d.Has(key) {
		return nil, ErrKeyNotFound
	}
	val, err := k.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return val, nil
}

// Put replaces the blob stored under key.
func (k *Disk) Put(key string, value []byte) error {
	if err := k.d.Write(key, value); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}
