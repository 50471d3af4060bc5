package storage

import "io"

// Storage persists uploaded audio files. Implementations return an opaque
// stored name that callers keep for later retrieval.
type Storage interface {
	Save(file io.Reader, originalName string) (string, error)
	Open(name string) (io.ReadSeekCloser, error)
	Delete(name string) error
}
