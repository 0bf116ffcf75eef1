// Package shmem provides transport-visible memory for one-sided operations.
//
// Two kinds of mapping are supported:
//
//   - Alloc/Free: anonymous MAP_SHARED mappings. These back private staging
//     buffers and in-process window segments. They are page aligned and
//     zero-filled by the OS.
//   - MapFile: a file mapped MAP_SHARED read-write so that another OS process
//     mapping the same file observes the same bytes. The open file is kept
//     so callers can msync or flock it.
//
// On platforms without mmap both fall back to heap memory, which keeps the
// package usable in tests but gives no cross-process visibility.
package shmem
