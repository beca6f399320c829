package uci

import "testing"

func TestIntOptionSetRejectsOutOfRange(t *testing.T) {
	v := 64
	opt := &IntOption{Name: "Hash", Min: 1, Max: 65536, Value: &v}
	if err := opt.Set("70000"); err == nil {
		t.Fatal("expected an error for a value above Max")
	}
	if v != 64 {
		t.Fatalf("rejected Set must not mutate the backing value, got %d", v)
	}
	if err := opt.Set("128"); err != nil {
		t.Fatalf("unexpected error for an in-range value: %v", err)
	}
	if v != 128 {
		t.Fatalf("Set(128) should update the backing value, got %d", v)
	}
}

func TestBoolOptionRoundTrip(t *testing.T) {
	v := false
	opt := &BoolOption{Name: "Ponder", Value: &v}
	if err := opt.Set("true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v {
		t.Fatal("expected Ponder to be true after Set(\"true\")")
	}
}

func TestStringOptionSetAlwaysSucceeds(t *testing.T) {
	v := ""
	opt := &StringOption{Name: "SyzygyPath", Value: &v}
	if err := opt.Set("/tmp/syzygy"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "/tmp/syzygy" {
		t.Fatalf("expected SyzygyPath to be set, got %q", v)
	}
}

func TestDefaultOptionsListOrder(t *testing.T) {
	opts := DefaultOptions()
	list := opts.List()
	wantNames := []string{"Hash", "Threads", "Ponder", "MultiPV", "SyzygyPath", "Contempt", "MoveOverhead"}
	if len(list) != len(wantNames) {
		t.Fatalf("expected %d options, got %d", len(wantNames), len(list))
	}
	for i, name := range wantNames {
		if list[i].UciName() != name {
			t.Errorf("option %d = %q, want %q", i, list[i].UciName(), name)
		}
	}
}

func TestDefaultOptionsValues(t *testing.T) {
	opts := DefaultOptions()
	if opts.HashMB != 64 || opts.Threads != 1 || opts.MultiPV != 1 || opts.MoveOverhead != 30 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}
