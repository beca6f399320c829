package engine

import (
	"sync/atomic"
	"time"
)

// Limits mirrors the UCI `go` parameters that bound a search (§6).
type Limits struct {
	WhiteTime, BlackTime           int // milliseconds
	WhiteIncrement, BlackIncrement int
	MovesToGo                      int
	MoveTime                       int
	Depth                          int
	Nodes                          int64
	Infinite                       bool
	Ponder                         bool
	MoveOverhead                   int // ms reserved for engine-to-GUI latency, from the UCI option
}

// StopSignal is the single shared atomic stop-flag described in §5: the
// coordinator sets it on `stop`, on time exhaustion, or on `quit`, and
// every worker polls it through IsHardTimeout at every search node.
type StopSignal struct {
	flag int32
}

func (s *StopSignal) Stop()          { atomic.StoreInt32(&s.flag, 1) }
func (s *StopSignal) Stopped() bool  { return atomic.LoadInt32(&s.flag) != 0 }
func (s *StopSignal) Reset()         { atomic.StoreInt32(&s.flag, 0) }

// TimeManager computes soft/hard budgets from Limits and owns the timer
// that trips the shared stop-flag on hard timeout, grounded on the
// teacher's TimeManagement (engine/timemanagement.go).
type TimeManager struct {
	start     time.Time
	softTime  time.Duration
	hardNodes int64
	softNodes int64
	stop      *StopSignal
	timer     *time.Timer
	nodes     int64 // shared node counter, summed across workers
}

// NewTimeManager starts the clock and, for a bounded search, arms a
// hard-timeout timer against the shared stop signal.
func NewTimeManager(limits Limits, whiteToMove bool, stop *StopSignal) *TimeManager {
	start := time.Now()
	soft, hard := ComputeThinkTime(limits, whiteToMove)

	var hardNodes, softNodes int64
	if limits.Nodes > 0 {
		hardNodes = limits.Nodes
	}

	var timer *time.Timer
	if hard > 0 {
		timer = time.AfterFunc(time.Duration(hard)*time.Millisecond, stop.Stop)
	}
	return &TimeManager{
		start:     start,
		softTime:  time.Duration(soft) * time.Millisecond,
		hardNodes: hardNodes,
		softNodes: softNodes,
		stop:      stop,
		timer:     timer,
	}
}

func (tm *TimeManager) Close() {
	if tm.timer != nil {
		tm.timer.Stop()
	}
}

func (tm *TimeManager) ElapsedMilliseconds() int64 {
	return int64(time.Since(tm.start) / time.Millisecond)
}

func (tm *TimeManager) AddNodes(n int64) int64 {
	return atomic.AddInt64(&tm.nodes, n)
}

func (tm *TimeManager) Nodes() int64 {
	return atomic.LoadInt64(&tm.nodes)
}

// IsHardTimeout is polled from inside the search; it also honors the
// coordinator's stop flag so `stop`/`quit`/ponderhit-without-a-limit all
// funnel through one check.
func (tm *TimeManager) IsHardTimeout() bool {
	if tm.stop.Stopped() {
		return true
	}
	if tm.hardNodes > 0 && tm.Nodes() >= tm.hardNodes {
		return true
	}
	return false
}

// IsSoftTimeout is checked only between iterations, never mid-node.
func (tm *TimeManager) IsSoftTimeout() bool {
	if tm.softTime > 0 && time.Since(tm.start) >= tm.softTime {
		return true
	}
	if tm.softNodes > 0 && tm.Nodes() >= tm.softNodes {
		return true
	}
	return false
}

// ExtendForPanic doubles the soft budget, used when the root
// score drops sharply between iterations (§4.5 "a panic extension
// doubles the target when the score drops sharply").
func (tm *TimeManager) ExtendForPanic() {
	tm.softTime *= 2
}

// ComputeThinkTime is a direct port of the teacher's
// engine/timemanagement.go ComputeThinkTime: reserve a slice of the
// clock for overhead, split the remainder across the estimated moves
// left in the game, and cap the hard limit at half the remaining time
// or five times the soft budget, whichever is smaller.
func ComputeThinkTime(limits Limits, whiteToMove bool) (soft, hard int) {
	const movesToGoDefault = 50
	moveOverhead := limits.MoveOverhead
	if moveOverhead <= 0 {
		moveOverhead = 20
	}
	if limits.MoveTime != 0 {
		return limits.MoveTime, limits.MoveTime
	}
	if limits.Infinite || limits.Ponder {
		return 0, 0
	}

	var mainTime, incTime int
	if whiteToMove {
		mainTime, incTime = limits.WhiteTime, limits.WhiteIncrement
	} else {
		mainTime, incTime = limits.BlackTime, limits.BlackIncrement
	}
	if mainTime == 0 && incTime == 0 {
		return 0, 0
	}

	movesToGo := movesToGoDefault
	if limits.MovesToGo > 0 && limits.MovesToGo < movesToGoDefault {
		movesToGo = limits.MovesToGo
	}

	reserve := max(2*moveOverhead, min(1000, mainTime/20))
	mainTime = max(0, mainTime-reserve)

	soft = mainTime/movesToGo + incTime
	hard = min(mainTime/2, soft*5)
	return
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
