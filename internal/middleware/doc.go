// Package middleware provides the gin middleware chain for the gateway:
// correlation id propagation, access logging, panic recovery, client rate
// limiting and authentication/authorization guards.
package middleware
