// Package storage defines the data-directory file abstraction.
package storage

// Provider is the interface for data-directory file operations. All names
// are relative to the data directory root.
type Provider interface {
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically replaces the named file with data.
	Write(name string, data []byte) error
	// Remove deletes the named file.
	Remove(name string) error
	// Exists reports whether the named file is present.
	Exists(name string) bool
}
