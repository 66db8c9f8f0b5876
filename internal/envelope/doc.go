// Package envelope renders the uniform HTTP response bodies the gateway
// returns for both successful and failed requests.
package envelope
