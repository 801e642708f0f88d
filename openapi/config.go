package openapi

import "net/http"

const (
	// ZserioObjectContentType is the content type of zserio-encoded
	// request and response bodies.
	ZserioObjectContentType = "application/x-zserio-object"

	// RequestPart is the OpenAPI extension naming the request field a
	// parameter draws its value from.
	RequestPart = "x-zserio-request-part"

	// RequestPartWhole is the sentinel field path selecting the whole
	// serialized request object instead of a sub-field.
	RequestPartWhole = "*"
)

// Location places an encoded parameter in the request.
type Location int

const (
	// LocationQuery appends the parameter to the query string.
	LocationQuery Location = iota

	// LocationPath substitutes the parameter into its URI template slot.
	LocationPath

	// LocationHeader adds the parameter as a request header.
	LocationHeader
)

// String returns the OpenAPI name of the location.
func (l Location) String() string {
	switch l {
	case LocationPath:
		return "path"
	case LocationHeader:
		return "header"
	default:
		return "query"
	}
}

// Format converts a resolved value to text before style composition.
type Format int

const (
	// FormatString uses the value's natural textual form: integers in
	// base 10, floats in their shortest round-trip representation,
	// booleans as true/false.
	FormatString Format = iota

	// FormatHex encodes bytes as lowercase hex pairs without a prefix.
	FormatHex

	// FormatBase64 encodes bytes with the standard base64 alphabet.
	FormatBase64

	// FormatBase64url encodes bytes with the URL-safe base64 alphabet.
	FormatBase64url

	// FormatBinary passes bytes through unchanged.
	FormatBinary
)

// Style is the RFC 6570 §3.2.7 parameter expansion style.
type Style int

const (
	// StyleSimple expands as {X}.
	StyleSimple Style = iota

	// StyleLabel expands as {.X}.
	StyleLabel

	// StyleForm expands as {?X}; query parameters only.
	StyleForm

	// StyleMatrix expands as {;X}; path parameters only.
	StyleMatrix
)

// Parameter describes one declared operation parameter.
//
// The zero value is a query parameter with plain string encoding and
// simple style, matching the OpenAPI defaults.
type Parameter struct {
	// Location places the encoded fragments.
	Location Location

	// Ident is the parameter name: the template slot for path
	// parameters, the query key, or the header name.
	Ident string

	// Field is the dot-separated request field (or zero-argument
	// function) path supplying the value. The sentinel "*" (or an empty
	// string) selects the whole serialized request object.
	Field string

	// Default is used when the field value cannot be resolved.
	Default string

	// Format converts the value to text.
	Format Format

	// Style composes array and object values.
	Style Style

	// Explode generates separate fragments per array item or object
	// field where the style allows it.
	Explode bool
}

// Operation maps one service method onto an HTTP endpoint.
type Operation struct {
	// Path is the URI template suffix, with {name} parameter slots.
	Path string

	// Method is the HTTP method; empty means POST.
	Method string

	// Parameters maps parameter name to its descriptor.
	Parameters map[string]Parameter

	// BodyRequestObject sends the serialized request object as the
	// request body. Ignored for GET.
	BodyRequestObject bool

	// Security overrides the service-wide default requirement when
	// non-nil. An empty non-nil value means "no security required".
	Security *SecurityAlternatives
}

// HTTPMethod returns the operation's method, defaulting to POST.
func (o Operation) HTTPMethod() string {
	if o.Method == "" {
		return http.MethodPost
	}
	return o.Method
}

// Config is the complete HTTP binding of a service.
type Config struct {
	// BaseURL is the service base, e.g. "https://api.example.com/v1".
	// Operation paths append to it.
	BaseURL string

	// Methods maps service method names to operations.
	Methods map[string]Operation

	// SecuritySchemes declares the named schemes requirements refer to.
	SecuritySchemes map[string]SecurityScheme

	// DefaultSecurity applies to operations without an override.
	// Empty means no security required.
	DefaultSecurity SecurityAlternatives
}
