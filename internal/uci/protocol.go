// Package uci implements the line-oriented UCI protocol front end
// described in §6: it owns stdin/stdout, the option table, and the
// position/go/stop state machine, and translates between UCI's textual
// wire format and internal/engine's Go API. Grounded throughout on the
// teacher's uci/uciprotocol.go, generalized from the teacher's single-
// SearchService engine to the Lazy SMP coordinator in internal/engine.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"chessengine/internal/book"
	"chessengine/internal/chess"
	"chessengine/internal/engine"
)

const (
	engineName    = "chessengine"
	engineVersion = "1.0"
	engineAuthor  = "chessengine contributors"
)

// Protocol is the coordinator thread of §5: it is the only goroutine
// that reads stdin. A search runs on a goroutine started by goCommand,
// which writes that search's info and bestmove lines, and on the
// worker goroutines spawned by engine.Engine.Search; this struct only
// tracks the bookkeeping needed to accept `stop`/`quit` while a search
// is in flight.
type Protocol struct {
	eng     *engine.Engine
	book    *book.Store
	options *Options

	positions []*chess.Position // positions[0] is the FEN root, rest are played moves
	fields    []string

	done   chan struct{}
	cancel context.CancelFunc
}

// New wires an engine and an optional book (nil is fine -- Probe on a
// nil *book.Store always misses) behind a fresh protocol loop.
func New(eng *engine.Engine, bookStore *book.Store) *Protocol {
	root, _ := chess.NewPositionFromFEN(chess.InitialPositionFEN)
	p := &Protocol{
		eng:       eng,
		book:      bookStore,
		options:   DefaultOptions(),
		positions: []*chess.Position{root},
		done:      make(chan struct{}),
	}
	close(p.done)
	return p
}

// Run reads commands from stdin until `quit` or EOF, exactly like the
// teacher's uciProtocol.Run.
func (p *Protocol) Run() int {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "quit" {
			break
		}
		if err := p.handle(line); err != nil {
			infoString(err.Error())
		}
	}
	p.stopCommand()
	p.awaitSearch()
	return 0
}

func infoString(s string) {
	fmt.Println("info string " + s)
}

func (p *Protocol) handle(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	command := fields[0]
	p.fields = fields[1:]

	if command == "stop" {
		return p.stopCommand()
	}

	select {
	case <-p.done:
	default:
		return errors.New("search still running")
	}

	switch command {
	case "uci":
		return p.uciCommand()
	case "setoption":
		return p.setOptionCommand()
	case "isready":
		return p.isReadyCommand()
	case "ucinewgame":
		return p.uciNewGameCommand()
	case "position":
		return p.positionCommand()
	case "go":
		return p.goCommand()
	case "ponderhit":
		return p.ponderhitCommand()
	}
	return fmt.Errorf("unknown command %q", command)
}

func (p *Protocol) uciCommand() error {
	fmt.Printf("id name %s %s\n", engineName, engineVersion)
	fmt.Printf("id author %s\n", engineAuthor)
	for _, opt := range p.options.List() {
		fmt.Println(opt.UciString())
	}
	fmt.Println("uciok")
	return nil
}

func (p *Protocol) setOptionCommand() error {
	// "name <N...> value <V...>" -- names and values may themselves
	// contain spaces (e.g. a Windows SyzygyPath), so re-split on the
	// literal "value" token rather than assuming a fixed field count.
	args := p.fields
	if len(args) < 2 || args[0] != "name" {
		return errors.New("invalid setoption arguments")
	}
	valueIdx := indexOf(args, "value")
	var name, value string
	if valueIdx == -1 {
		name = strings.Join(args[1:], " ")
	} else {
		name = strings.Join(args[1:valueIdx], " ")
		value = strings.Join(args[valueIdx+1:], " ")
	}

	for _, opt := range p.options.List() {
		if strings.EqualFold(opt.UciName(), name) {
			if err := opt.Set(value); err != nil {
				return err
			}
			return p.applyOption(name)
		}
	}
	return fmt.Errorf("unhandled option %q", name)
}

// applyOption pushes an option's new value into the running engine
// where it is more than a plain settable field (Hash needs a
// reallocation, Threads and Contempt are read by the coordinator).
func (p *Protocol) applyOption(name string) error {
	switch {
	case strings.EqualFold(name, "Hash"):
		if actual := p.eng.Resize(p.options.HashMB); actual != p.options.HashMB {
			infoString(fmt.Sprintf("hash downgraded to %d MB", actual))
		}
	case strings.EqualFold(name, "Threads"):
		p.eng.Threads = p.options.Threads
	case strings.EqualFold(name, "Contempt"):
		p.eng.Contempt = p.options.Contempt
	}
	return nil
}

func indexOf(fields []string, value string) int {
	for i, f := range fields {
		if f == value {
			return i
		}
	}
	return -1
}

func (p *Protocol) isReadyCommand() error {
	fmt.Println("readyok")
	return nil
}

func (p *Protocol) uciNewGameCommand() error {
	p.eng.NewGame()
	return nil
}

// positionCommand parses `position [startpos|fen <FEN>] [moves m1 m2
// ...]`, grounded on the teacher's positionCommand. Per §7's error
// policy, an illegal move in the move list stops applying further
// moves and keeps the position at the last legal state, with a
// diagnostic rather than aborting the command.
func (p *Protocol) positionCommand() error {
	args := p.fields
	if len(args) == 0 {
		return errors.New("invalid position arguments")
	}

	movesIdx := indexOf(args, "moves")
	var fen string
	switch args[0] {
	case "startpos":
		fen = chess.InitialPositionFEN
	case "fen":
		if movesIdx == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIdx], " ")
		}
	default:
		return errors.New("unknown position command")
	}

	root, err := chess.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}

	positions := []*chess.Position{root}
	if movesIdx >= 0 {
		cur := root
		for _, lan := range args[movesIdx+1:] {
			m, ok := chess.ParseMove(cur, lan)
			if !ok {
				infoString(fmt.Sprintf("illegal move in position command: %s", lan))
				break
			}
			next := cur.Clone()
			next.MakeMove(m)
			positions = append(positions, next)
			cur = next
		}
	}
	p.positions = positions
	return nil
}

func (p *Protocol) ponderhitCommand() error {
	return errors.New("ponderhit not supported: pondering is not started speculatively")
}

func (p *Protocol) stopCommand() error {
	p.eng.Stop()
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

func (p *Protocol) awaitSearch() {
	<-p.done
}

// goCommand parses the search limits and either answers instantly from
// the opening book or dispatches to the Lazy SMP coordinator on a
// worker goroutine, streaming `info` lines as iterations complete and
// finishing with `bestmove`, per §6.
func (p *Protocol) goCommand() error {
	root := p.positions[len(p.positions)-1]

	if moves, ok := p.book.Probe(root); ok {
		fmt.Printf("bestmove %v\n", moves[0])
		return nil
	}

	limits := parseLimits(p.fields, p.options.MoveOverhead)
	historyKeys := historyKeysBefore(p.positions)

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done

	go func() {
		defer close(done)
		defer cancel()
		result := p.eng.Search(ctx, root, historyKeys, limits, limits.Depth, func(line engine.PVLine) {
			printInfo(line, p.eng.TT.Hashfull())
		})
		best := chess.NoMove
		if len(result.PV) > 0 {
			best = result.PV[0]
		}
		if best == chess.NoMove {
			legal := chess.GenerateLegalMoves(root)
			if len(legal) > 0 {
				best = legal[0]
			}
		}
		fmt.Printf("bestmove %v\n", best)
	}()
	return nil
}

// historyKeysBefore returns the Zobrist keys of every position played
// before the search root, used to extend repetition detection across
// the game's real move history (§4.5).
func historyKeysBefore(positions []*chess.Position) []uint64 {
	if len(positions) <= 1 {
		return nil
	}
	return engine.PositionsToHistoryKeys(positions[:len(positions)-1])
}

func printInfo(line engine.PVLine, hashfull int) {
	var score string
	if engine.IsMateScore(line.Score) {
		score = fmt.Sprintf("mate %d", engine.MateDistance(line.Score))
	} else {
		score = fmt.Sprintf("cp %d", line.Score)
	}
	nps := line.Nodes * 1000 / (line.TimeMs + 1)

	var pv strings.Builder
	for i, m := range line.PV {
		if i > 0 {
			pv.WriteByte(' ')
		}
		pv.WriteString(m.String())
	}

	fmt.Printf("info depth %d seldepth %d multipv 1 score %s nodes %d nps %d time %d hashfull %d pv %s\n",
		line.Depth, line.SelDepth, score, line.Nodes, nps, line.TimeMs, hashfull, pv.String())
}

// parseLimits builds engine.Limits from `go` arguments, grounded on the
// teacher's parseLimits, plus MoveOverhead folded into the hard-cap
// arithmetic that ComputeThinkTime performs downstream.
func parseLimits(args []string, moveOverhead int) engine.Limits {
	limits := engine.Limits{MoveOverhead: moveOverhead}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			limits.Ponder = true
		case "infinite":
			limits.Infinite = true
		case "wtime":
			limits.WhiteTime, i = readInt(args, i)
		case "btime":
			limits.BlackTime, i = readInt(args, i)
		case "winc":
			limits.WhiteIncrement, i = readInt(args, i)
		case "binc":
			limits.BlackIncrement, i = readInt(args, i)
		case "movestogo":
			limits.MovesToGo, i = readInt(args, i)
		case "depth":
			limits.Depth, i = readInt(args, i)
		case "movetime":
			limits.MoveTime, i = readInt(args, i)
		case "nodes":
			var n int
			n, i = readInt(args, i)
			limits.Nodes = int64(n)
		case "searchmoves":
			// Consumed but not filtered against yet: the coordinator
			// always searches the full legal move list. Root move
			// restriction would need plumbing into Worker.IterativeDeepen;
			// left as future work since no example in the pack exercises
			// UCI searchmoves.
		}
	}
	return limits
}

func readInt(args []string, i int) (int, int) {
	if i+1 >= len(args) {
		return 0, i
	}
	v, err := strconv.Atoi(args[i+1])
	if err != nil {
		return 0, i + 1
	}
	return v, i + 1
}
