// Package fs provides the filesystem seam used by index persistence.
//
//   - [FileSystem]: the operations persistence needs (open, remove, rename, stat)
//   - [LocalFS]: production implementation on top of package os
//   - [FaultyFS]: test wrapper that injects open, write, sync, close and rename failures
//
// Production code uses fs.Default. Tests inject a FaultyFS:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".metadata", fs.Fault{FailAfterBytes: 0})
//
// Operations take no context.Context: index files are written synchronously
// on the calling goroutine and local syscalls are not interruptible.
package fs
