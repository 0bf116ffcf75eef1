//go:build unix

package shmem

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Alloc maps size bytes of anonymous shared memory.
func Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrZeroSize
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("shmem: mmap %d bytes: %w", size, err)
	}
	return data, nil
}

// Free unmaps memory returned by Alloc. The slice must keep the capacity it
// was returned with.
func Free(b []byte) error {
	if cap(b) == 0 {
		return ErrNotMapped
	}
	err := unix.Munmap(b[:cap(b)])
	if errors.Is(err, unix.EINVAL) {
		return ErrNotMapped
	}
	return err
}

// MapFile maps path read-write and shared, growing the file to size bytes
// when it is shorter. A size of 0 maps the file at its current length.
func MapFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := st.Size()
	if int64(size) > sz {
		if err := f.Truncate(int64(size)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("shmem: grow %s: %w", path, err)
		}
		sz = int64(size)
	}
	if sz == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("shmem: %s: %w", path, ErrZeroSize)
	}
	if sz > int64(^uint(0)>>1) {
		_ = f.Close()
		return nil, fmt.Errorf("shmem: file too large to map (%d bytes)", sz)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(sz), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("shmem: mmap %s: %w", path, err)
	}

	return &File{f: f, Data: data}, nil
}

// Close unmaps the file and closes its descriptor.
func (m *File) Close() error {
	var err error
	if m.Data != nil {
		if uerr := unix.Munmap(m.Data); uerr != nil && !errors.Is(uerr, unix.EINVAL) {
			err = uerr
		}
		m.Data = nil
	}
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
		m.f = nil
	}
	return err
}
