// Package schema declares forms as data: fields addressed by path, each with
// a kind, an initial value, and declarative validation rules. Definitions
// load from JSON or YAML documents on disk, in an fs.FS, or behind a URL, or
// derive from the request body of an OpenAPI operation or a bare JSON Schema
// object, and compile into the validators wired onto live fields.
package schema
