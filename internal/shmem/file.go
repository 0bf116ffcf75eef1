package shmem

import "os"

// File is a shared mapping of a file.
type File struct {
	f    *os.File
	Data []byte
}

// FD returns the descriptor backing the mapping, or -1 once closed.
func (m *File) FD() int {
	if m == nil || m.f == nil {
		return -1
	}
	return int(m.f.Fd())
}

// Name returns the path the mapping was opened with.
func (m *File) Name() string {
	if m == nil || m.f == nil {
		return ""
	}
	return m.f.Name()
}
