package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"chessengine/internal/book"
	"chessengine/internal/engine"
	"chessengine/internal/uci"
)

var (
	versionName = "dev"
	gitRevision = "(null)"
	flgBookPath string
)

// main wires the UCI front end, the Lazy SMP coordinator and the
// optional opening book together, grounded on the teacher's
// counter/main.go entrypoint (flag parsing, stderr logger, engine/uci
// construction), generalized from the teacher's single-evaluator
// engine.NewEngine to this repository's Engine/Options split.
func main() {
	flag.StringVar(&flgBookPath, "book", "", "path to a badger-backed opening book directory")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	logger.Println("chessengine",
		"version", versionName,
		"revision", gitRevision,
		"go", runtime.Version())

	var bookStore *book.Store
	if flgBookPath != "" {
		store, err := book.Open(flgBookPath)
		if err != nil {
			logger.Println("opening book unavailable:", err)
		} else {
			bookStore = store
			defer bookStore.Close()
		}
	}

	options := uci.DefaultOptions()
	eng := engine.NewEngine(options.HashMB, options.Threads)

	protocol := uci.New(eng, bookStore)
	os.Exit(protocol.Run())
}
