package domain

import "testing"

func TestGet_Water(t *testing.T) {
	water, ok := Get("water")
	if !ok {
		t.Fatal("Get(water) not found")
	}

	for _, field := range []string{"flow_rate", "leak_detected", "valve_open"} {
		if _, ok := water.StateFields[field]; !ok {
			t.Errorf("water state fields missing %q", field)
		}
	}

	if !water.HasFeature("leak_detection") {
		t.Error("water should declare feature leak_detection")
	}
	if !water.HasRole("main_valve") {
		t.Error("water should declare role main_valve")
	}
	if water.ReadOnly() {
		t.Error("water should accept valve commands")
	}
}

func TestGet_ScheduleQueryable(t *testing.T) {
	sched, ok := Get("schedule")
	if !ok {
		t.Fatal("Get(schedule) not found")
	}

	if !sched.Queryable() {
		t.Fatal("schedule should expose the range-query extension")
	}
	for _, field := range []string{"uid", "start", "end"} {
		if _, ok := sched.Query.ItemFields[field]; !ok {
			t.Errorf("schedule query item fields missing %q", field)
		}
	}
	if !sched.ReadOnly() {
		t.Error("schedule should be read-only")
	}
}

func TestGet_Unknown(t *testing.T) {
	if _, ok := Get("teleporter"); ok {
		t.Error("Get(teleporter) should not be found")
	}
}

func TestList_StableOrder(t *testing.T) {
	first := List()
	second := List()

	if len(first) == 0 {
		t.Fatal("List() returned no domains")
	}
	if len(first) != len(second) {
		t.Fatalf("List() length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("List() order not stable at %d: %s vs %s", i, first[i].Name, second[i].Name)
		}
	}
}

func TestList_UniqueNames(t *testing.T) {
	seen := make(map[string]struct{})
	for _, d := range List() {
		if _, dup := seen[d.Name]; dup {
			t.Errorf("duplicate domain name %q", d.Name)
		}
		seen[d.Name] = struct{}{}

		if d.DisplayName == "" {
			t.Errorf("domain %q has no display name", d.Name)
		}
	}
}

func TestOccupancy_ReadOnly(t *testing.T) {
	occ, ok := Get("occupancy")
	if !ok {
		t.Fatal("Get(occupancy) not found")
	}
	if !occ.ReadOnly() {
		t.Error("occupancy should be read-only")
	}
}
