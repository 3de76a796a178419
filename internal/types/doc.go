// Package types defines the shared data structures for postdash: the wire
// format of the remote collection API (collections, folder/request trees,
// saved example responses) and the records persisted in the local store.
package types
