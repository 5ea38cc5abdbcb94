package aggregator

// trailingMean is a fixed-capacity ring of the most recent observations.
// nil observations occupy a slot but are left out of the mean.
type trailingMean struct {
	slots []*float64
	next  int
	full  bool
	sum   float64
	count int
}

func newTrailingMean(capacity int) *trailingMean {
	return &trailingMean{slots: make([]*float64, capacity)}
}

func (t *trailingMean) add(v *float64) {
	if t.full {
		if old := t.slots[t.next]; old != nil {
			t.sum -= *old
			t.count--
		}
	}
	if v != nil {
		x := *v
		t.slots[t.next] = &x
		t.sum += x
		t.count++
	} else {
		t.slots[t.next] = nil
	}
	t.next = (t.next + 1) % len(t.slots)
	if t.next == 0 {
		t.full = true
	}
}

// mean returns nil when the window holds no non-nil observation.
func (t *trailingMean) mean() *float64 {
	if t.count == 0 {
		return nil
	}
	m := t.sum / float64(t.count)
	return &m
}

// value is mean for series that never contain nil.
func (t *trailingMean) value() float64 {
	if m := t.mean(); m != nil {
		return *m
	}
	return 0
}
