package pathstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is a single step in a parsed path: either a map key or a sequence
// index, never both. Index is -1 for key segments.
type Segment struct {
	Key   string
	Index int
}

// IsIndex reports whether the segment addresses a sequence slot.
func (s Segment) IsIndex() bool {
	return s.Index >= 0
}

// Path is the parsed form of a dotted, bracketed address.
type Path []Segment

// String renders the path back into its canonical text form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex() {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// Parse tokenizes a dotted path with optional bracket indices, e.g.
// "owner.pets[2].name" or "matrix[1][0]". Keys are separated by dots and
// indices ride on the key they follow; a path must start with a key. Empty
// segments, empty or non-numeric indices, and unterminated brackets are
// errors.
func Parse(path string) (Path, error) {
	if path == "" {
		return nil, fmt.Errorf("pathstore: path is empty")
	}

	var out Path
	for _, chunk := range strings.Split(path, ".") {
		if chunk == "" {
			return nil, fmt.Errorf("pathstore: path %q contains an empty segment", path)
		}

		key := chunk
		rest := ""
		if open := strings.IndexByte(chunk, '['); open >= 0 {
			key, rest = chunk[:open], chunk[open:]
		}
		if key == "" {
			return nil, fmt.Errorf("pathstore: path %q has an index with no key", path)
		}
		if strings.IndexByte(key, ']') >= 0 {
			return nil, fmt.Errorf("pathstore: unmatched %q in path %q", "]", path)
		}
		out = append(out, Segment{Key: key, Index: -1})

		for rest != "" {
			if rest[0] != '[' {
				return nil, fmt.Errorf("pathstore: unexpected %q after index in path %q", string(rest[0]), path)
			}
			closing := strings.IndexByte(rest, ']')
			if closing < 0 {
				return nil, fmt.Errorf("pathstore: unterminated index in path %q", path)
			}
			digits := rest[1:closing]
			if digits == "" {
				return nil, fmt.Errorf("pathstore: empty index in path %q", path)
			}
			idx, err := strconv.Atoi(digits)
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("pathstore: invalid index %q in path %q", digits, path)
			}
			out = append(out, Segment{Key: "", Index: idx})
			rest = rest[closing+1:]
		}
	}
	return out, nil
}
