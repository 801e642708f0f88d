// Package openapi describes how the operations of a zserio RPC service map
// onto HTTP requests.
//
// A Config lists the service's operations: for each method name, the URI
// template, HTTP method, parameter descriptors, and security requirements.
// Parameter descriptors say where a value goes (path, query, header), which
// request field supplies it, and how it is encoded — a format (plain, hex,
// base64, base64url, binary) plus an RFC 6570 style (simple, label, form,
// matrix) with an explode flag.
//
// Resolved request field values are modeled as immutable tagged Values
// (scalar, binary, array, object); Parameter.Encode turns a Value into the
// textual fragments spliced into the request.
//
// Security requirements are a disjunction of conjunctions of named schemes
// (Basic, API key, Cookie, Bearer); Choose picks the first combination a
// destination's effective httpconf.Config can satisfy.
package openapi
