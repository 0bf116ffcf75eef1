// Package region implements the region registry over in-process groups of
// ranks.
//
// A World tracks the windows registered by a group. Each Window holds one
// segment per rank: anonymous shared memory from World.Create, or shared
// file mappings from World.Map so that another OS process can map the same
// bytes.
//
// # One-sided operations
//
// View.Put, View.Get and View.Acc are queued, not performed. They complete at
// View.Flush, View.FlushAll, or opportunistically at Registry.Progress. Until
// then the local buffer passed to the operation is still owned by the
// operation: a put source must not change and a get destination must not be
// read.
//
// Completing an operation takes the target segment's lock, the same lock
// View.Lock takes for direct access. Direct access and transport access to a
// segment are therefore never concurrent. For file-backed segments the lock
// also holds an exclusive flock on the backing file.
//
// # Registry
//
// World.Registry returns the rma.Registry for one rank. Lookup finds the
// window whose segment for the given rank contains an address, and Regions
// yields live windows in registration order.
package region
