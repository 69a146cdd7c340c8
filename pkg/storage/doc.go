// Package storage provides an interface to handle the objects written to
// patch bundles and read back from them.
//
// The local file system implementation lives in storage/localfs.
package storage
