/*
Package interpreter runs maze pipelines written as postfix token lists.

Tokens naming a command operate on the current maze; every other token is
pushed on the operand stack. For example

	seed 3 gen 4 gen maze.png 8 render trim solved.png 8 render

builds a seed, expands it twice and renders it before and after pruning.

Commands:

	seed               current = labyrinth of a 1x1 maze
	random             pop height, pop width; current = Wilson maze
	lab                current = labyrinth of current
	gen                pop factor; current = current expanded by factor
	trim               current = current pruned to its solution
	render             pop scale, pop file name; write current as PNG
	save               pop file name; write current in binary form
	load               pop file name; current = maze read from file
	print              write current as text to the output
*/
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-maze/expand"
	"github.com/beka-birhanu/vinom-maze/labyrinth"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/prune"
	"github.com/beka-birhanu/vinom-maze/render"
	"github.com/beka-birhanu/vinom-maze/wilson"
)

var (
	ErrEmptyStack     = errors.New("interpreter: operand stack is empty")
	ErrNoMaze         = errors.New("interpreter: no current maze")
	ErrInvalidOperand = errors.New("interpreter: operand is not an integer")
)

// Files opens files for reading and writing.
type Files interface {
	Create(name string) (io.WriteCloser, error)
	Open(name string) (io.ReadCloser, error)
}

// Logger receives progress messages.
type Logger interface {
	Info(string)
}

// OSFiles is the Files implementation backed by the operating system.
type OSFiles struct{}

func (OSFiles) Create(name string) (io.WriteCloser, error) { return os.Create(name) }
func (OSFiles) Open(name string) (io.ReadCloser, error)    { return os.Open(name) }

// Config configures an Interpreter. Zero fields get defaults.
type Config struct {
	Files  Files      // Defaults to OSFiles.
	Out    io.Writer  // Destination of print. Defaults to os.Stdout.
	Rand   *rand.Rand // Defaults to a time-seeded source.
	Logger Logger     // Optional.
}

// Interpreter holds an operand stack and the current maze.
type Interpreter struct {
	files    Files
	out      io.Writer
	rnd      *rand.Rand
	logger   Logger
	stack    []string
	current  *maze.Maze
	commands map[string]func() error
}

// New creates an Interpreter with an empty stack and no current maze.
func New(cfg Config) *Interpreter {
	in := &Interpreter{
		files:  cfg.Files,
		out:    cfg.Out,
		rnd:    cfg.Rand,
		logger: cfg.Logger,
	}
	if in.files == nil {
		in.files = OSFiles{}
	}
	if in.out == nil {
		in.out = os.Stdout
	}
	if in.rnd == nil {
		in.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	in.commands = map[string]func() error{
		"seed":   in.seed,
		"random": in.random,
		"lab":    in.lab,
		"gen":    in.gen,
		"trim":   in.trim,
		"render": in.render,
		"save":   in.save,
		"load":   in.load,
		"print":  in.print,
	}
	return in
}

// Run executes tokens in order and stops at the first failing command.
func (in *Interpreter) Run(tokens []string) error {
	for i, token := range tokens {
		if err := in.Exec(token); err != nil {
			return fmt.Errorf("token %d (%s): %w", i, token, err)
		}
	}
	return nil
}

// Exec executes a single token.
func (in *Interpreter) Exec(token string) error {
	cmd, ok := in.commands[token]
	if !ok {
		in.stack = append(in.stack, token)
		return nil
	}
	return cmd()
}

// Maze returns the current maze, or nil.
func (in *Interpreter) Maze() *maze.Maze {
	return in.current
}

// Stack returns a copy of the operand stack, bottom first.
func (in *Interpreter) Stack() []string {
	return append([]string(nil), in.stack...)
}

func (in *Interpreter) pop() (string, error) {
	if len(in.stack) == 0 {
		return "", ErrEmptyStack
	}
	top := in.stack[len(in.stack)-1]
	in.stack = in.stack[:len(in.stack)-1]
	return top, nil
}

func (in *Interpreter) popInt() (int, error) {
	s, err := in.pop()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOperand, s)
	}
	return v, nil
}

func (in *Interpreter) requireMaze() error {
	if in.current == nil {
		return ErrNoMaze
	}
	return nil
}

func (in *Interpreter) info(msg string) {
	if in.logger != nil {
		in.logger.Info(msg)
	}
}

func (in *Interpreter) seed() error {
	m, err := labyrinth.Seed()
	if err != nil {
		return err
	}
	in.current = m
	return nil
}

func (in *Interpreter) random() error {
	height, err := in.popInt()
	if err != nil {
		return err
	}
	width, err := in.popInt()
	if err != nil {
		return err
	}
	m, err := wilson.New(width, height, in.rnd)
	if err != nil {
		return err
	}
	in.current = m
	return nil
}

func (in *Interpreter) lab() error {
	if err := in.requireMaze(); err != nil {
		return err
	}
	m, err := labyrinth.Convert(in.current)
	if err != nil {
		return err
	}
	in.current = m
	return nil
}

func (in *Interpreter) gen() error {
	factor, err := in.popInt()
	if err != nil {
		return err
	}
	if err := in.requireMaze(); err != nil {
		return err
	}
	opts := &expand.Options{Rand: in.rnd}
	if in.logger != nil {
		opts.Logger = in.logger
	}
	m, err := expand.Expand(in.current, factor, opts)
	if err != nil {
		return err
	}
	in.current = m
	return nil
}

func (in *Interpreter) trim() error {
	if err := in.requireMaze(); err != nil {
		return err
	}
	in.info("Trimming")
	m, err := prune.Prune(in.current)
	if err != nil {
		return err
	}
	in.current = m
	return nil
}

func (in *Interpreter) render() error {
	scale, err := in.popInt()
	if err != nil {
		return err
	}
	name, err := in.pop()
	if err != nil {
		return err
	}
	if err := in.requireMaze(); err != nil {
		return err
	}
	in.info("Rendering " + name)
	return in.write(name, func(w io.Writer) error {
		return render.PNG(w, in.current, scale)
	})
}

func (in *Interpreter) save() error {
	name, err := in.pop()
	if err != nil {
		return err
	}
	if err := in.requireMaze(); err != nil {
		return err
	}
	return in.write(name, func(w io.Writer) error {
		_, err := in.current.WriteTo(w)
		return err
	})
}

func (in *Interpreter) load() error {
	name, err := in.pop()
	if err != nil {
		return err
	}
	f, err := in.files.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	m, err := maze.Decode(f)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	in.current = m
	return nil
}

func (in *Interpreter) print() error {
	if err := in.requireMaze(); err != nil {
		return err
	}
	_, err := io.WriteString(in.out, in.current.String())
	return err
}

func (in *Interpreter) write(name string, fn func(io.Writer) error) error {
	f, err := in.files.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}
