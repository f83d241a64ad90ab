// Package protocol implements the wire format of Vector's exec secrets backend.
//
// Vector runs the helper and writes one JSON request per line to its stdin:
//
//	{"version": "1.0", "secrets": ["db.password", "api.key"]}
//
// The helper answers each request with exactly one JSON line on stdout. Every
// requested name is present and carries either a value or an error, never both:
//
//	{"secrets": {"db.password": {"value": "s3cr3t"}, "api.key": {"error": "NotFound: ..."}}}
//
// A request that cannot be decoded at all is answered with a top-level error
// and no secrets map:
//
//	{"error": "MalformedRequest: request is not valid JSON"}
package protocol
