package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"chessengine/internal/chess"
)

// Engine is the coordinator described in §5: a single UCI-facing thread
// that owns the shared transposition table and spawns Threads workers
// per `go` command, each an independent Lazy SMP searcher. Threads=1
// gives a purely sequential core, matching the spec's requirement.
type Engine struct {
	TT       *TranspositionTable
	Threads  int
	Contempt int

	stop *StopSignal
}

// NewEngine allocates the shared table. Hash sizing and Threads follow
// the UCI `setoption` values; both may be changed between searches via
// Resize and the Threads field.
func NewEngine(hashMB, threads int) *Engine {
	if threads < 1 {
		threads = 1
	}
	tt, _ := NewTranspositionTableSafe(hashMB)
	return &Engine{
		TT:      tt,
		Threads: threads,
		stop:    &StopSignal{},
	}
}

// Resize discards the table and reallocates at a new size, matching
// §4.3 ("Resize discards all entries") and the §7 out-of-memory
// downgrade policy. The returned size is what was actually allocated,
// which may be smaller than requested.
func (e *Engine) Resize(hashMB int) (actualMB int) {
	tt, actual := NewTranspositionTableSafe(hashMB)
	e.TT = tt
	return actual
}

func (e *Engine) NewGame() {
	e.TT.Clear()
}

// Stop signals every in-flight worker to unwind at its next poll point.
func (e *Engine) Stop() {
	e.stop.Stop()
}

// SearchResult is what the coordinator hands back to the UCI layer once
// every worker has joined: the deepest completed line across all
// workers plus the summed node count (§5: "Node counters are per-worker
// and summed only at stop").
type SearchResult struct {
	PVLine
	TotalNodes int64
}

// Search runs Threads independent Worker.IterativeDeepen calls sharing
// e.TT and e.stop, and returns the best line among them at join time.
// progress is passed to worker 0 only, so it is called from that
// worker's goroutine after each of its completed iterations; the other
// workers report nothing.
func (e *Engine) Search(ctx context.Context, root *chess.Position, gameHistoryKeys []uint64, limits Limits, maxDepth int, progress Progress) SearchResult {
	e.stop.Reset()
	e.TT.NewSearch()

	tm := NewTimeManager(limits, root.Side == chess.White, e.stop)
	defer tm.Close()

	go func() {
		<-ctx.Done()
		e.stop.Stop()
	}()

	g, _ := errgroup.WithContext(ctx)
	results := make([]PVLine, e.Threads)

	for i := 0; i < e.Threads; i++ {
		i := i
		g.Go(func() error {
			w := NewWorker(root, e.TT, tm, gameHistoryKeys, e.Contempt)
			var report Progress
			if i == 0 {
				report = progress
			}
			results[i] = w.IterativeDeepen(maxDepth, report)
			return nil
		})
	}
	_ = g.Wait()

	best := results[0]
	for _, r := range results[1:] {
		if r.Depth > best.Depth || (r.Depth == best.Depth && r.Move != chess.NoMove && best.Move == chess.NoMove) {
			best = r
		}
	}
	return SearchResult{PVLine: best, TotalNodes: tm.Nodes()}
}

// PositionsToHistoryKeys extracts the Zobrist keys of a game's position
// sequence (all positions before the search root), used to detect
// repetitions against moves played earlier in the actual game rather
// than only inside the search tree. Grounded on the teacher's
// PositionsToHistoryKeys (engine/searchparams.go).
func PositionsToHistoryKeys(positions []*chess.Position) []uint64 {
	keys := make([]uint64, 0, len(positions))
	for _, p := range positions {
		keys = append(keys, p.Key)
	}
	return keys
}
