package pathstore

import "fmt"

// Get resolves a path against the root tree. The second return is false when
// any intermediate is missing, when a segment does not match the container it
// lands on, or when the path does not parse. A key that is present with a nil
// value reports (nil, true).
func Get(root map[string]any, path string) (any, bool) {
	if root == nil {
		return nil, false
	}
	segments, err := Parse(path)
	if err != nil {
		return nil, false
	}
	return lookup(root, segments)
}

// Set writes a value at the path, allocating intermediate containers as it
// descends: key segments create map[string]any, index segments create or
// extend []any padded with nil. Sibling entries are never disturbed; only a
// node that blocks the descent (a scalar or mismatched container where a
// deeper write needs to pass through) is replaced.
func Set(root map[string]any, path string, value any) error {
	if root == nil {
		return fmt.Errorf("pathstore: root map is nil")
	}
	segments, err := Parse(path)
	if err != nil {
		return err
	}
	write(root, segments, value)
	return nil
}

// Delete removes exactly the addressed node: map keys are deleted, sequence
// slots are nil-ed in place so sibling indices keep their addresses. Emptied
// ancestors stay where they are. Deleting a path that does not resolve is a
// no-op.
func Delete(root map[string]any, path string) error {
	if root == nil {
		return fmt.Errorf("pathstore: root map is nil")
	}
	segments, err := Parse(path)
	if err != nil {
		return err
	}
	remove(root, segments)
	return nil
}

// Empty reports whether the subtree holds no defined leaf: nil, empty
// containers, and containers of only-empty containers are all empty. Any
// defined scalar, including "" and false, counts as a leaf.
func Empty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case map[string]any:
		for _, v := range typed {
			if !Empty(v) {
				return false
			}
		}
		return true
	case []any:
		for _, v := range typed {
			if !Empty(v) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone deep-copies the map/slice structure of a tree. Leaves are copied by
// assignment.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = Clone(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = Clone(v)
		}
		return clone
	default:
		return typed
	}
}

func lookup(root map[string]any, segments Path) (any, bool) {
	current := any(root)
	for _, seg := range segments {
		switch node := current.(type) {
		case map[string]any:
			if seg.IsIndex() {
				return nil, false
			}
			next, ok := node[seg.Key]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			if !seg.IsIndex() || seg.Index >= len(node) {
				return nil, false
			}
			current = node[seg.Index]
		default:
			return nil, false
		}
	}
	return current, true
}

// write places value at segments relative to node and returns node's
// replacement. Slices grow through append, so every level hands its possibly
// reallocated child back to the caller for reattachment.
func write(node any, segments Path, value any) any {
	seg := segments[0]
	rest := segments[1:]

	if seg.IsIndex() {
		slice, _ := node.([]any)
		for len(slice) <= seg.Index {
			slice = append(slice, nil)
		}
		if len(rest) == 0 {
			slice[seg.Index] = value
		} else {
			slice[seg.Index] = write(slice[seg.Index], rest, value)
		}
		return slice
	}

	container, ok := node.(map[string]any)
	if !ok || container == nil {
		container = make(map[string]any)
	}
	if len(rest) == 0 {
		container[seg.Key] = value
	} else {
		container[seg.Key] = write(container[seg.Key], rest, value)
	}
	return container
}

func remove(node any, segments Path) {
	seg := segments[0]
	rest := segments[1:]

	switch typed := node.(type) {
	case map[string]any:
		if seg.IsIndex() {
			return
		}
		if len(rest) == 0 {
			delete(typed, seg.Key)
			return
		}
		child, ok := typed[seg.Key]
		if !ok {
			return
		}
		remove(child, rest)
	case []any:
		if !seg.IsIndex() || seg.Index >= len(typed) {
			return
		}
		if len(rest) == 0 {
			typed[seg.Index] = nil
			return
		}
		remove(typed[seg.Index], rest)
	}
}
