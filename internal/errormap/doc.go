// Package errormap translates downstream failures into the gateway's HTTP
// error vocabulary.
//
// Translation is data-driven: each downstream operation registers mapping
// entries from its domain error codes to HTTP status, error kind and a
// user-facing message. The translator is total; every failure, however
// malformed, yields a well-formed HTTP error.
package errormap
