// Package auth implements credential verification for the gateway.
//
// A bearer token is verified in two stages: cryptographic validation of the
// signature and expiry, then a liveness lookup confirming the token has not
// been revoked on sign-out or superseded by a refresh. Access and refresh
// tokens are signed with distinct secrets.
package auth
