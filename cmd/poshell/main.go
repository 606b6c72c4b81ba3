// Command poshell is an interactive POSIX-style command shell: it reads
// command lines, parses them into pipelines, and executes them as trees of
// child processes wired together by pipes.
package main

import (
	"fmt"
	"os"

	"poshell/internal/config"
	"poshell/internal/logging"
	"poshell/internal/repl"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cfg = config.Default()
	}

	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	shell, err := repl.New(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer shell.Close()

	return shell.Run()
}
