// Package client assembles and dispatches HTTP requests for zserio
// service methods.
//
// A Client is created from an openapi.Config describing how each service
// method maps onto an HTTP endpoint. Call resolves the declared
// parameters from the request object graph, encodes them per their
// format and style, applies the destination's effective configuration
// (headers, cookies, credentials, proxy), verifies the operation's
// security requirement, and sends the request.
//
// Per-destination configuration comes from an httpconf.Settings store;
// keychain-backed credentials resolve through a secret.Store. Both are
// optional.
package client
