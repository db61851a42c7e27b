// Package summary renders form state after a session: a text receipt
// through a pongo2 template engine, or a JSON document carrying the full
// snapshot. Snapshot flattens a schema definition against a form.State into
// display-ready rows; Renderer turns the result into bytes.
package summary
