// Package gateway wires the HTTP surface of the gateway: the declarative
// route table, the call-through handlers and the server lifecycle.
package gateway
