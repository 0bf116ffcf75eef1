// Package rma makes one-sided put, get, and accumulate operations safe when
// the memory they touch can also be reached by direct loads and stores.
//
// # Overview
//
// A registered region may be mapped for shared access, so a process can read
// or write it directly while the transport is also moving bytes in or out of
// it. Handing such memory straight to the transport races the direct path and
// can produce torn data. This package sits between the high-level one-sided
// API and the transport and closes that race:
//
//   - The staging engine moves buffers that live inside a registered region
//     into private transport memory before an operation and reconciles them
//     afterwards, holding the region's direct-access lock only while it
//     touches region memory.
//   - The synchronization protocol drives completion across every live region
//     at fence and barrier points.
//   - The progress driver lets callers poll outstanding asynchronous work.
//
// # Staging protocol
//
// Every operation batch is bracketed by a prepare and a finish call:
//
//	staged, moved := ctx.PreparePut(srcs, size)
//	for i := range staged {
//	    win.Put(staged[i], target, offs[i])
//	}
//	ctx.Fence(target)
//	ctx.FinishPut(srcs, staged, size)
//
// Entry i of a staged batch always corresponds to entry i of the original.
// It is either the original slice itself or a private buffer owned by the
// Context until the matching finish call; callers never free staged buffers.
//
// # Guard mode
//
// Config.Guard selects between GuardCopy (the default) and GuardNone. Under
// GuardNone put and get staging is skipped entirely and the original batch is
// returned as-is. Accumulate still applies its scale factor in both modes.
//
// # Errors
//
// Failures in this layer are memory-consistency violations that cannot be
// unwound safely, so exported operations do not return errors. They write a
// diagnostic line naming the rank, log the failure, and abort the whole group
// through Transport.Abort. Buffers staged earlier in the failing batch are
// released before the abort.
//
// # Thread Safety
//
// A Context serves one rank and assumes that rank calls it from a single
// goroutine at a time. Races this package guards against are between ranks
// (or processes) and a rank's own direct accesses.
package rma
