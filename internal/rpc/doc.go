// Package rpc implements the remote call adapter that forwards authenticated
// requests to downstream services.
//
// Downstream operations are invoked over long-lived shared gRPC client
// connections using a passthrough JSON codec: the gateway never interprets
// the payload beyond attaching the verified principal. Transport-level errors
// never escape as raw gRPC errors; every failure surfaces as a Failure value.
package rpc
