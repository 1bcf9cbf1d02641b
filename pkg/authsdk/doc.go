// Package authsdk is a Go client for the session service HTTP API.
//
// The SDKClient exposes the unauthenticated operations (register, verify,
// login, health probes) and produces Session values for authenticated
// work. A Session holds the token pair and transparently refreshes the
// access token when it nears expiry.
package authsdk
