// Package taskstore persists tasks and their projects in a YAML file.
//
// Every mutation is a whole-file read-modify-write, written to a temporary
// file then renamed over the store. No concurrent writer is assumed.
package taskstore
