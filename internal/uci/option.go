package uci

import (
	"errors"
	"fmt"
	"strconv"
)

// Option is the common interface for a UCI `setoption`-configurable
// value, grounded on the teacher's uci/option.go Option interface
// (BoolOption/IntOption), extended with a StringOption for SyzygyPath
// per §6.
type Option interface {
	UciName() string
	UciString() string
	Set(s string) error
}

type BoolOption struct {
	Name  string
	Value *bool
}

func (o *BoolOption) UciName() string { return o.Name }

func (o *BoolOption) UciString() string {
	return fmt.Sprintf("option name %v type check default %v", o.Name, *o.Value)
}

func (o *BoolOption) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*o.Value = v
	return nil
}

type IntOption struct {
	Name  string
	Min   int
	Max   int
	Value *int
}

func (o *IntOption) UciName() string { return o.Name }

func (o *IntOption) UciString() string {
	return fmt.Sprintf("option name %v type spin default %v min %v max %v",
		o.Name, *o.Value, o.Min, o.Max)
}

func (o *IntOption) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v < o.Min || v > o.Max {
		return errors.New("argument out of range")
	}
	*o.Value = v
	return nil
}

// StringOption backs SyzygyPath; the teacher-pack has no direct analog
// (the teacher's own option set is Hash/Threads-only), so this follows
// the same shape as BoolOption/IntOption for consistency.
type StringOption struct {
	Name  string
	Value *string
}

func (o *StringOption) UciName() string { return o.Name }

func (o *StringOption) UciString() string {
	return fmt.Sprintf("option name %v type string default %v", o.Name, *o.Value)
}

func (o *StringOption) Set(s string) error {
	*o.Value = s
	return nil
}

// Options holds the live configuration surface described in §6, backed
// directly by the fields the engine and book/tablebase loaders read.
type Options struct {
	HashMB       int
	Threads      int
	Ponder       bool
	MultiPV      int
	SyzygyPath   string
	Contempt     int
	MoveOverhead int
}

// DefaultOptions matches values a fresh engine process would boot with.
func DefaultOptions() *Options {
	return &Options{
		HashMB:       64,
		Threads:      1,
		Ponder:       false,
		MultiPV:      1,
		SyzygyPath:   "",
		Contempt:     0,
		MoveOverhead: 30,
	}
}

// List returns the option table in the fixed order the `uci` command
// reports it, per §6's minimum set: Hash, Threads, Ponder, MultiPV,
// SyzygyPath, Contempt, MoveOverhead.
func (o *Options) List() []Option {
	return []Option{
		&IntOption{Name: "Hash", Min: 1, Max: 65536, Value: &o.HashMB},
		&IntOption{Name: "Threads", Min: 1, Max: 256, Value: &o.Threads},
		&BoolOption{Name: "Ponder", Value: &o.Ponder},
		&IntOption{Name: "MultiPV", Min: 1, Max: 218, Value: &o.MultiPV},
		&StringOption{Name: "SyzygyPath", Value: &o.SyzygyPath},
		&IntOption{Name: "Contempt", Min: -100, Max: 100, Value: &o.Contempt},
		&IntOption{Name: "MoveOverhead", Min: 0, Max: 5000, Value: &o.MoveOverhead},
	}
}
