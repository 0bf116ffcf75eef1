//go:build !unix

package shmem

import (
	"fmt"
	"os"
)

// Alloc returns heap memory when mmap is not available.
func Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrZeroSize
	}
	return make([]byte, size), nil
}

// Free is a no-op; heap memory is reclaimed by the garbage collector.
func Free(b []byte) error {
	if cap(b) == 0 {
		return ErrNotMapped
	}
	return nil
}

// MapFile reads the file into memory when mmap is not available. Writes are
// only persisted by File.Close.
func MapFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if len(data) < size {
		data = append(data, make([]byte, size-len(data))...)
	}
	if len(data) == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("shmem: %s: %w", path, ErrZeroSize)
	}
	return &File{f: f, Data: data}, nil
}

// Close writes the contents back and closes the file.
func (m *File) Close() error {
	if m.f == nil {
		return nil
	}
	_, err := m.f.WriteAt(m.Data, 0)
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	m.f, m.Data = nil, nil
	return err
}
