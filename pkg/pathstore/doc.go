// Package pathstore implements structural access to nested map/slice trees
// addressed by dotted, bracketed path strings such as "owner.pets[2].name".
// The form controller keeps its value, touched, and error state in trees of
// map[string]any and []any; pathstore is the only code that walks them. Reads
// never fail: a missing intermediate or a container/segment mismatch reports
// absence rather than an error. Writes allocate intermediate containers on
// demand and deletes remove exactly the addressed node, nil-ing slice slots in
// place so sibling indices keep their addresses.
package pathstore
