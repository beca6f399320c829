package engine

import "testing"

func TestComputeThinkTimeFixedMoveTime(t *testing.T) {
	soft, hard := ComputeThinkTime(Limits{MoveTime: 500}, true)
	if soft != 500 || hard != 500 {
		t.Fatalf("movetime limit should return a fixed soft=hard budget, got soft=%d hard=%d", soft, hard)
	}
}

func TestComputeThinkTimeInfiniteIsUnbounded(t *testing.T) {
	soft, hard := ComputeThinkTime(Limits{Infinite: true}, true)
	if soft != 0 || hard != 0 {
		t.Fatalf("infinite search should have no soft/hard budget, got soft=%d hard=%d", soft, hard)
	}
	soft, hard = ComputeThinkTime(Limits{Ponder: true}, true)
	if soft != 0 || hard != 0 {
		t.Fatalf("pondering search should have no soft/hard budget, got soft=%d hard=%d", soft, hard)
	}
}

func TestComputeThinkTimeRespectsMoveOverhead(t *testing.T) {
	base := Limits{WhiteTime: 10000, MoveOverhead: 30}
	overheaded := Limits{WhiteTime: 10000, MoveOverhead: 500}

	softBase, hardBase := ComputeThinkTime(base, true)
	softOver, hardOver := ComputeThinkTime(overheaded, true)

	if softOver > softBase || hardOver > hardBase {
		t.Fatalf("a larger move overhead must not increase the computed budget: base soft=%d hard=%d, overheaded soft=%d hard=%d",
			softBase, hardBase, softOver, hardOver)
	}
}

func TestComputeThinkTimeDefaultsOverheadWhenUnset(t *testing.T) {
	explicit := Limits{WhiteTime: 10000, MoveOverhead: 20}
	unset := Limits{WhiteTime: 10000}

	soft1, hard1 := ComputeThinkTime(explicit, true)
	soft2, hard2 := ComputeThinkTime(unset, true)
	if soft1 != soft2 || hard1 != hard2 {
		t.Fatalf("an unset MoveOverhead should default to the same 20ms reserve as an explicit 20, got (%d,%d) vs (%d,%d)",
			soft1, hard1, soft2, hard2)
	}
}

func TestComputeThinkTimeNoTimeControlIsUnbounded(t *testing.T) {
	soft, hard := ComputeThinkTime(Limits{}, true)
	if soft != 0 || hard != 0 {
		t.Fatalf("no time control and no movetime should leave the search unbounded, got soft=%d hard=%d", soft, hard)
	}
}

func TestStopSignalResetClearsFlag(t *testing.T) {
	s := &StopSignal{}
	s.Stop()
	if !s.Stopped() {
		t.Fatal("expected Stopped() to report true after Stop()")
	}
	s.Reset()
	if s.Stopped() {
		t.Fatal("expected Stopped() to report false after Reset()")
	}
}

func TestTimeManagerHardTimeoutFromNodes(t *testing.T) {
	stop := &StopSignal{}
	tm := NewTimeManager(Limits{Nodes: 10}, true, stop)
	defer tm.Close()

	tm.AddNodes(5)
	if tm.IsHardTimeout() {
		t.Fatal("should not be at hard timeout before the node budget is reached")
	}
	tm.AddNodes(10)
	if !tm.IsHardTimeout() {
		t.Fatal("expected hard timeout once the node budget is exceeded")
	}
}

func TestTimeManagerHardTimeoutFromStop(t *testing.T) {
	stop := &StopSignal{}
	tm := NewTimeManager(Limits{}, true, stop)
	defer tm.Close()

	if tm.IsHardTimeout() {
		t.Fatal("unbounded search should not report hard timeout before Stop()")
	}
	stop.Stop()
	if !tm.IsHardTimeout() {
		t.Fatal("expected IsHardTimeout to observe the shared stop signal")
	}
}
