package dragselect

// Extremes tracks the lowest and highest index visited during a session.
// Either bound may be unset.
type Extremes struct {
	Min    int
	Max    int
	HasMin bool
	HasMax bool
}

// Include widens the extremes to cover index.
func (e *Extremes) Include(index int) {
	if !e.HasMin || index < e.Min {
		e.Min = index
		e.HasMin = true
	}
	if !e.HasMax || index > e.Max {
		e.Max = index
		e.HasMax = true
	}
}

// CollapseTo sets both bounds to index.
func (e *Extremes) CollapseTo(index int) {
	e.Min, e.Max = index, index
	e.HasMin, e.HasMax = true, true
}

// Reset unsets both bounds.
func (e *Extremes) Reset() {
	*e = Extremes{}
}

// Op is a (de)selection of the inclusive index run [Lo, Hi].
type Op struct {
	Lo       int
	Hi       int
	Selected bool
}

// Len returns the number of indices the op covers.
func (o Op) Len() int {
	if o.Hi < o.Lo {
		return 0
	}
	return o.Hi - o.Lo + 1
}

// Indices expands the op into its index list.
func (o Op) Indices() []int {
	n := o.Len()
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = o.Lo + i
	}
	return out
}

// Reconcile computes the selection changes for a range-mode session anchored
// at from with the pointer now at to, given the extremes visited so far.
// Empty runs are omitted and deselections come first.
func Reconcile(from, to int, ext Extremes) []Op {
	var ops []Op
	add := func(lo, hi int, selected bool) {
		if hi >= lo {
			ops = append(ops, Op{Lo: lo, Hi: hi, Selected: selected})
		}
	}

	switch {
	case to == from:
		// Back on the anchor: everything visited except the anchor goes.
		if ext.HasMin {
			add(ext.Min, from-1, false)
		}
		if ext.HasMax {
			add(from+1, ext.Max, false)
		}
		add(from, from, true)

	case to < from:
		if ext.HasMin {
			add(ext.Min, to-1, false)
		}
		add(to, from, true)
		if ext.HasMax {
			add(from+1, ext.Max, true)
		}

	default:
		if ext.HasMax {
			add(to+1, ext.Max, false)
		}
		add(from, to, true)
		if ext.HasMin {
			add(ext.Min, from-1, true)
		}
	}
	return ops
}
