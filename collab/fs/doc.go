// Package fs is the file collaborator of the kernel. Files and directories
// live on an afs storage (mem:// by default) and are handed to the kernel as
// reference counted handles. Directory releases run inside a log scope whose
// concurrency is bounded the way a write-ahead log bounds outstanding
// operations.
package fs
