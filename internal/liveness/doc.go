// Package liveness provides the client for the shared token liveness store.
//
// The store records which issued tokens are currently valid. Absence of a key
// means the token must be treated as invalid regardless of signature
// validity. The gateway reads and deletes records; tokens are inserted by the
// external login and refresh flows.
package liveness
