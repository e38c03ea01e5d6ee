package reveal

import (
	"reflect"
	"sort"
	"testing"
)

type recorder struct {
	events map[int][]bool
}

func (r *recorder) record(key int, visible bool) {
	if r.events == nil {
		r.events = map[int][]bool{}
	}
	r.events[key] = append(r.events[key], visible)
}

func TestObserver_ReportsOnceThenOnReveal(t *testing.T) {
	var rec recorder
	o := New(rec.record, Options{})
	for row := 0; row < 10; row++ {
		o.Observe(row, row, 1)
	}

	o.Update(0, 3)
	for row := 0; row < 3; row++ {
		if !reflect.DeepEqual(rec.events[row], []bool{true}) {
			t.Fatalf("row %d events = %v, want [true]", row, rec.events[row])
		}
	}
	if !reflect.DeepEqual(rec.events[5], []bool{false}) {
		t.Fatalf("row 5 events = %v, want [false]", rec.events[5])
	}
	if o.Len() != 7 {
		t.Fatalf("Len = %d, want 7 after revealing 3", o.Len())
	}

	// Unchanged visibility is not re-reported.
	o.Update(0, 3)
	if len(rec.events[5]) != 1 {
		t.Fatalf("row 5 re-reported without change: %v", rec.events[5])
	}

	o.Update(4, 3)
	if !reflect.DeepEqual(rec.events[5], []bool{false, true}) {
		t.Fatalf("row 5 events = %v, want [false true]", rec.events[5])
	}
	// Revealed rows are forgotten.
	o.Update(0, 10)
	if len(rec.events[0]) != 1 {
		t.Fatalf("row 0 reported after unobserve: %v", rec.events[0])
	}
	if o.Len() != 0 {
		t.Fatalf("Len = %d, want 0", o.Len())
	}
}

func TestObserver_ThresholdAndMargin(t *testing.T) {
	var rec recorder
	o := New(rec.record, Options{Threshold: 0.5})
	o.Observe(1, 8, 4) // rows 8-11

	o.Update(0, 9) // one of four rows visible: 25%
	if !reflect.DeepEqual(rec.events[1], []bool{false}) {
		t.Fatalf("events = %v, want [false]", rec.events[1])
	}
	o.Update(0, 10) // 50%
	if !reflect.DeepEqual(rec.events[1], []bool{false, true}) {
		t.Fatalf("events = %v, want [false true]", rec.events[1])
	}

	var rec2 recorder
	margin := New(rec2.record, Options{RootMargin: 2})
	margin.Observe(7, 11, 1)
	margin.Update(0, 10)
	if !reflect.DeepEqual(rec2.events[7], []bool{true}) {
		t.Fatalf("margin events = %v, want [true]", rec2.events[7])
	}
}

func TestObserver_UnobserveAndDisconnect(t *testing.T) {
	var rec recorder
	o := New(rec.record, Options{})
	o.Observe(1, 0, 1)
	o.Observe(2, 1, 1)
	o.Observe(3, 2, 1)
	o.Unobserve(2)
	o.Update(0, 5)

	var keys []int
	for k := range rec.events {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	if !reflect.DeepEqual(keys, []int{1, 3}) {
		t.Fatalf("reported keys = %v, want [1 3]", keys)
	}

	o.Observe(4, 100, 1)
	o.Disconnect()
	if o.Len() != 0 {
		t.Fatalf("Len = %d after Disconnect", o.Len())
	}
}

func TestRatio_ZeroHeight(t *testing.T) {
	if ratio(0, 0, 0, 10) != 0 {
		t.Fatalf("zero-height element should never be visible")
	}
}
