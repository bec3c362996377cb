/*
Package expand grows a perfect maze into a larger, self-similar perfect maze.

Every cell of the source maze becomes a square region of factor x factor
cells in the result. One randomized depth-first carver is spawned per source
cell, seeded at the center of its region and confined to a box that reaches
halfway into the neighboring regions. The carvers run interleaved, one step
each per sweep, until none can make progress; neighboring boxes overlap, so
the interleaving decides who claims the shared cells. Afterwards one wall is
cleared between the regions of every pair of source cells that are connected
in the source maze ("weld"), which joins the per-region trees into a single
spanning tree.

The output for a fixed random source is fully deterministic.
*/
package expand

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
)

var (
	ErrInvalidFactor  = errors.New("expand: factor must be at least 1")
	ErrWeldImpossible = errors.New("expand: no cell pair to weld regions")
	ErrNoClaimedCell  = errors.New("expand: region has no claimed cell")
)

// Logger receives progress messages.
type Logger interface {
	Info(string)
}

// Options configures an expansion. A nil *Options uses a time-seeded random
// source and no logging.
type Options struct {
	Rand   *rand.Rand // Random source shared by every generator and the weld phase.
	Logger Logger     // Optional progress logger.
}

// Report summarizes one expansion.
type Report struct {
	Generators int   // One per source cell.
	Sweeps     int   // Round-robin sweeps, including the final one without progress.
	Steps      []int // Passages carved by each generator, indexed by generator id.
	Welds      int   // Walls cleared between regions.
}

// Expand returns a new maze of size (source.Width()*factor, source.Height()*factor).
// If source is a perfect maze so is the result. source is not modified.
func Expand(source *maze.Maze, factor int, opts *Options) (*maze.Maze, error) {
	m, _, err := ExpandWithReport(source, factor, opts)
	return m, err
}

// ExpandWithReport is like Expand but also returns a Report of the run.
func ExpandWithReport(source *maze.Maze, factor int, opts *Options) (*maze.Maze, Report, error) {
	if factor < 1 {
		return nil, Report{}, fmt.Errorf("%w: got %d", ErrInvalidFactor, factor)
	}
	if opts == nil {
		opts = &Options{}
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &expansion{
		source: source,
		factor: factor,
		rnd:    rnd,
		logger: opts.Logger,
	}
	return e.run()
}

type expansion struct {
	source *maze.Maze
	factor int
	rnd    *rand.Rand
	logger Logger

	grid   *maze.Maze
	owners []int
	gens   []*regionGenerator
	report Report
}

func (e *expansion) run() (*maze.Maze, Report, error) {
	grid, err := maze.New(e.source.Width()*e.factor, e.source.Height()*e.factor)
	if err != nil {
		return nil, Report{}, err
	}
	e.grid = grid

	e.spawn()

	e.info("Generating")
	e.generate()

	e.info("Welding")
	if err := e.weld(); err != nil {
		return nil, e.report, err
	}

	e.info("Finding start/end")
	if err := e.relocate(); err != nil {
		return nil, e.report, err
	}

	return e.grid, e.report, nil
}

// spawn creates one generator per source cell, in key order, so that
// generator ids equal source cell keys.
func (e *expansion) spawn() {
	e.owners = make([]int, e.grid.Size())
	for i := range e.owners {
		e.owners[i] = unclaimed
	}

	f, offset := e.factor, e.factor/2
	e.gens = make([]*regionGenerator, 0, e.source.Size())
	for y := 0; y < e.source.Height(); y++ {
		for x := 0; x < e.source.Width(); x++ {
			bounds := box{
				x1: (x-1)*f + offset,
				y1: (y-1)*f + offset,
				x2: (x+1)*f + offset,
				y2: (y+1)*f + offset,
			}
			seed := e.grid.MustCell(x*f+offset, y*f+offset)
			e.gens = append(e.gens, newRegionGenerator(len(e.gens), e.grid, e.owners, e.rnd, seed, bounds))
		}
	}
	e.report.Generators = len(e.gens)
	e.report.Steps = make([]int, len(e.gens))
}

// generate sweeps over all generators until a full sweep makes no progress.
func (e *expansion) generate() {
	for {
		e.report.Sweeps++
		progress := false
		for n, g := range e.gens {
			if g.advance() {
				e.report.Steps[n]++
				progress = true
			}
		}
		if !progress {
			return
		}
	}
}

// weld connects the regions of every pair of source cells with an open wall between them.
func (e *expansion) weld() error {
	for y := 0; y < e.source.Height(); y++ {
		for x := 0; x < e.source.Width(); x++ {
			sourceCell := e.source.MustCell(x, y)
			for _, dir := range maze.UpLeft {
				if sourceCell.HasWall(dir) {
					continue
				}
				other, ok := sourceCell.TryMove(dir)
				if !ok {
					continue
				}
				if err := e.weldPair(e.gens[sourceCell.Key()], e.gens[other.Key()]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

type cellPair struct {
	a, b maze.Cell
}

// weldPair clears one wall between a cell claimed by a and a neighboring
// cell claimed by b, chosen uniformly among all such pairs.
func (e *expansion) weldPair(a, b *regionGenerator) error {
	var candidates []cellPair
	a.claimed(func(c maze.Cell) bool {
		for _, dir := range maze.Directions {
			n, ok := c.TryMove(dir)
			if ok && e.owners[n.Key()] == b.id {
				candidates = append(candidates, cellPair{a: c, b: n})
			}
		}
		return true
	})

	if len(candidates) == 0 {
		return fmt.Errorf("%w: %d to %d", ErrWeldImpossible, a.id, b.id)
	}

	pick := candidates[e.rnd.Intn(len(candidates))]
	if err := pick.a.ClearMutualWall(pick.b); err != nil {
		return err
	}
	e.report.Welds++
	return nil
}

// relocate moves start and end into the regions of the source start and end.
func (e *expansion) relocate() error {
	start, err := e.firstClaimed(e.gens[e.source.Start().Key()])
	if err != nil {
		return err
	}
	end, err := e.firstClaimed(e.gens[e.source.End().Key()])
	if err != nil {
		return err
	}

	if err := e.grid.SetStart(start); err != nil {
		return err
	}
	return e.grid.SetEnd(end)
}

func (e *expansion) firstClaimed(g *regionGenerator) (maze.Cell, error) {
	var found maze.Cell
	ok := false
	g.claimed(func(c maze.Cell) bool {
		found, ok = c, true
		return false
	})
	if !ok {
		return maze.Cell{}, fmt.Errorf("%w: region %d", ErrNoClaimedCell, g.id)
	}
	return found, nil
}

func (e *expansion) info(msg string) {
	if e.logger != nil {
		e.logger.Info(msg)
	}
}
