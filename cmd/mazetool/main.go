// Command mazetool runs a maze pipeline given as postfix tokens.
//
//	mazetool seed 3 gen 4 gen maze.png 8 render trim solved.png 8 render
//
// See package interpreter for the list of commands.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/beka-birhanu/vinom-maze/interpreter"
	"github.com/beka-birhanu/vinom-maze/logger"
)

func main() {
	toolLogger, err := logger.New("MAZETOOL", "", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}

	in := interpreter.New(interpreter.Config{Logger: toolLogger})

	start := time.Now()
	if err := in.Run(os.Args[1:]); err != nil {
		toolLogger.Error(err.Error())
		os.Exit(1)
	}
	fmt.Printf("Time: %d ms\n", time.Since(start).Milliseconds())
}
