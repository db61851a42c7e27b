package form

import "github.com/evankellogg/informed/pkg/pathstore"

// State is a point-in-time snapshot of the controller: deep copies of the
// three trees plus the booleans derived from them at snapshot time.
type State struct {
	Values   map[string]any `json:"values"`
	Touched  map[string]any `json:"touched"`
	Errors   map[string]any `json:"errors"`
	Pristine bool           `json:"pristine"`
	Dirty    bool           `json:"dirty"`
	Invalid  bool           `json:"invalid"`
}

// State captures a snapshot. Later mutations of the controller do not show
// through, and mutating the snapshot does not touch the controller.
func (c *Controller) State() State {
	pristine := c.Pristine()
	return State{
		Values:   cloneTree(c.values),
		Touched:  cloneTree(c.touched),
		Errors:   cloneTree(c.errors),
		Pristine: pristine,
		Dirty:    !pristine,
		Invalid:  c.Invalid(),
	}
}

// Values returns a deep copy of the values tree.
func (c *Controller) Values() map[string]any {
	return cloneTree(c.values)
}

func cloneTree(tree map[string]any) map[string]any {
	clone, _ := pathstore.Clone(tree).(map[string]any)
	return clone
}
