package types

// Tick is a monotonically increasing counter used to timestamp component
// mutation. The scheduling layer advances the world tick exactly once per
// logical update pass; change-detection filters compare against it.
type Tick uint64

// ComponentTicks records when a component instance was added and when it was
// last written. One pair exists per component instance, parallel to the
// component data inside a column.
type ComponentTicks struct {
	Added   Tick `json:"added"`
	Changed Tick `json:"changed"`
}

func NewComponentTicks(now Tick) ComponentTicks {
	return ComponentTicks{Added: now, Changed: now}
}

// ChangedSince reports whether the component was written after the given
// tick. A component is considered changed at the tick it was added.
func (t ComponentTicks) ChangedSince(since Tick) bool {
	return t.Changed > since
}
