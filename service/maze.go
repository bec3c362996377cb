package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/codec"
	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/expand"
	"github.com/beka-birhanu/vinom-maze/labyrinth"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/prune"
	"github.com/beka-birhanu/vinom-maze/render"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/beka-birhanu/vinom-maze/wilson"
	"github.com/google/uuid"
)

// LargestKey is the sorted set ranking stored mazes by cell count.
const LargestKey = "mazes:largest"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidMaze     = errors.New("invalid maze record")
	ErrMissingDep      = errors.New("missing dependency")
)

// MazeConfig holds the dependencies and limits of a MazeService.
type MazeConfig struct {
	Repo    i.MazeRepo
	Cache   i.BlobCache
	Locker  i.Locker
	Ranking i.SortedSet
	Logger  i.Logger

	MaxFactor      int // Largest accepted expansion factor.
	MaxCells       int // Largest maze the service creates or imports.
	MaxRenderScale int // Largest accepted cell size in pixels.

	Rand *rand.Rand // Optional; defaults to a time-seeded source.
}

// MazeService implements i.MazeService.
type MazeService struct {
	repo    i.MazeRepo
	cache   i.BlobCache
	locker  i.Locker
	ranking i.SortedSet
	logger  i.Logger

	maxFactor      int
	maxCells       int
	maxRenderScale int

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMazeService creates a MazeService.
func NewMazeService(config MazeConfig) (*MazeService, error) {
	switch {
	case config.Repo == nil:
		return nil, fmt.Errorf("%w: maze repository", ErrMissingDep)
	case config.Cache == nil:
		return nil, fmt.Errorf("%w: cache", ErrMissingDep)
	case config.Locker == nil:
		return nil, fmt.Errorf("%w: locker", ErrMissingDep)
	case config.Ranking == nil:
		return nil, fmt.Errorf("%w: ranking", ErrMissingDep)
	case config.Logger == nil:
		return nil, fmt.Errorf("%w: logger", ErrMissingDep)
	}
	if config.MaxFactor < 1 || config.MaxCells < 4 || config.MaxRenderScale < 1 {
		return nil, fmt.Errorf("%w: limits must be positive and allow the seed", ErrInvalidArgument)
	}
	if config.MaxCells > codec.MaxCells {
		return nil, fmt.Errorf("%w: max cells above %d", ErrInvalidArgument, codec.MaxCells)
	}

	rnd := config.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MazeService{
		repo:           config.Repo,
		cache:          config.Cache,
		locker:         config.Locker,
		ranking:        config.Ranking,
		logger:         config.Logger,
		maxFactor:      config.MaxFactor,
		maxCells:       config.MaxCells,
		maxRenderScale: config.MaxRenderScale,
		rnd:            rnd,
	}, nil
}

// Seed stores the labyrinth of a single cell.
func (s *MazeService) Seed(ctx context.Context, owner uuid.UUID) (*dmn.MazeRecord, error) {
	m, err := labyrinth.Seed()
	if err != nil {
		return nil, err
	}
	return s.store(ctx, dmn.MazeRecordConfig{Owner: owner, Origin: dmn.OriginSeed, Maze: m})
}

// Random stores a Wilson maze of the given size.
func (s *MazeService) Random(ctx context.Context, owner uuid.UUID, width, height int) (*dmn.MazeRecord, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	if err := s.checkCells(width * height); err != nil {
		return nil, err
	}

	m, err := wilson.New(width, height, s.newRand())
	if err != nil {
		return nil, err
	}
	return s.store(ctx, dmn.MazeRecordConfig{Owner: owner, Origin: dmn.OriginRandom, Maze: m})
}

// Expand stores the expansion of maze id. Only one expansion of the same
// source runs at a time.
func (s *MazeService) Expand(ctx context.Context, owner, id uuid.UUID, factor int) (*dmn.MazeRecord, error) {
	if factor < 1 || factor > s.maxFactor {
		return nil, fmt.Errorf("%w: factor must be in [1, %d]", ErrInvalidArgument, s.maxFactor)
	}

	unlock, err := s.locker.Lock(ctx, "maze:"+id.String()+":expand")
	if err != nil {
		return nil, err
	}
	defer unlock()

	record, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCells(record.Cells * factor * factor); err != nil {
		return nil, err
	}

	source, err := s.load(ctx, record)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, report, err := expand.ExpandWithReport(source, factor, &expand.Options{Rand: s.newRand(), Logger: s.logger})
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", id, err)
	}
	s.logger.Info(fmt.Sprintf("Expanded %s by %d: %d generators, %d sweeps, %d welds in %s",
		id, factor, report.Generators, report.Sweeps, report.Welds, time.Since(started)))

	return s.store(ctx, dmn.MazeRecordConfig{Owner: owner, Parent: id, Origin: dmn.OriginExpand, Factor: factor, Maze: result})
}

// Labyrinth stores the labyrinth conversion of maze id.
func (s *MazeService) Labyrinth(ctx context.Context, owner, id uuid.UUID) (*dmn.MazeRecord, error) {
	record, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCells(record.Cells * 4); err != nil {
		return nil, err
	}

	source, err := s.load(ctx, record)
	if err != nil {
		return nil, err
	}
	result, err := labyrinth.Convert(source)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, dmn.MazeRecordConfig{Owner: owner, Parent: id, Origin: dmn.OriginLabyrinth, Maze: result})
}

// Solve stores maze id pruned to its solution and returns the path.
func (s *MazeService) Solve(ctx context.Context, owner, id uuid.UUID) (*dmn.MazeRecord, [][2]int, error) {
	source, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info(fmt.Sprintf("Trimming %s", id))
	pruned, err := prune.Prune(source)
	if err != nil {
		return nil, nil, err
	}
	cells, err := prune.Path(pruned)
	if errors.Is(err, prune.ErrNoPath) {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidMaze, id, err)
	}
	if err != nil {
		return nil, nil, err
	}

	path := make([][2]int, len(cells))
	for n, c := range cells {
		x, y := c.Position()
		path[n] = [2]int{x, y}
	}

	record, err := s.store(ctx, dmn.MazeRecordConfig{Owner: owner, Parent: id, Origin: dmn.OriginSolution, Maze: pruned})
	if err != nil {
		return nil, nil, err
	}
	return record, path, nil
}

// Get returns the record of maze id.
func (s *MazeService) Get(ctx context.Context, id uuid.UUID) (*dmn.MazeRecord, error) {
	return s.repo.ByID(ctx, id)
}

// Render returns maze id as PNG.
func (s *MazeService) Render(ctx context.Context, id uuid.UUID, scale int) ([]byte, error) {
	if scale < 1 || scale > s.maxRenderScale {
		return nil, fmt.Errorf("%w: scale must be in [1, %d]", ErrInvalidArgument, s.maxRenderScale)
	}
	m, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, m, scale); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Raw returns maze id in the uncompressed binary format.
func (s *MazeService) Raw(ctx context.Context, id uuid.UUID) ([]byte, error) {
	m, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import stores a maze given in the uncompressed binary format. The maze is
// not checked for being perfect.
func (s *MazeService) Import(ctx context.Context, owner uuid.UUID, raw []byte) (*dmn.MazeRecord, error) {
	m, err := maze.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMaze, err)
	}
	if err := s.checkCells(m.Size()); err != nil {
		return nil, err
	}
	return s.store(ctx, dmn.MazeRecordConfig{Owner: owner, Origin: dmn.OriginImport, Maze: m})
}

// Largest returns up to n records with the most cells, largest first.
func (s *MazeService) Largest(ctx context.Context, n int64) ([]*dmn.MazeRecord, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n must be positive", ErrInvalidArgument)
	}
	members, err := s.ranking.Top(ctx, LargestKey, n)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			s.logger.Warning(fmt.Sprintf("Skipping ranked member %q: %v", member, err))
			continue
		}
		ids = append(ids, id)
	}

	records, err := s.repo.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*dmn.MazeRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	result := make([]*dmn.MazeRecord, 0, len(records))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *MazeService) checkCells(cells int) error {
	if cells > s.maxCells {
		return fmt.Errorf("%w: %d cells, limit %d", dmn.ErrTooLarge, cells, s.maxCells)
	}
	return nil
}

// newRand derives an independent source so concurrent requests never share one.
func (s *MazeService) newRand() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewSource(s.rnd.Int63()))
}

func (s *MazeService) store(ctx context.Context, config dmn.MazeRecordConfig) (*dmn.MazeRecord, error) {
	config.ID = uuid.New()
	record, err := dmn.NewMazeRecord(config)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, record.ID.String(), record.Blob); err != nil {
		s.logger.Warning(fmt.Sprintf("Caching maze %s: %v", record.ID, err))
	}
	if err := s.ranking.Add(ctx, LargestKey, float64(record.Cells), record.ID.String()); err != nil {
		s.logger.Warning(fmt.Sprintf("Ranking maze %s: %v", record.ID, err))
	}
	return record, nil
}

func (s *MazeService) loadByID(ctx context.Context, id uuid.UUID) (*maze.Maze, error) {
	if m, ok := s.cached(ctx, id); ok {
		return m, nil
	}
	record, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decode(ctx, record)
}

func (s *MazeService) load(ctx context.Context, record *dmn.MazeRecord) (*maze.Maze, error) {
	if m, ok := s.cached(ctx, record.ID); ok {
		return m, nil
	}
	return s.decode(ctx, record)
}

func (s *MazeService) cached(ctx context.Context, id uuid.UUID) (*maze.Maze, bool) {
	blob, err := s.cache.Get(ctx, id.String())
	if err != nil {
		if !errors.Is(err, i.ErrCacheMiss) {
			s.logger.Warning(fmt.Sprintf("Reading cached maze %s: %v", id, err))
		}
		return nil, false
	}
	m, err := dmn.DecodeBlob(blob)
	if err != nil {
		s.logger.Warning(fmt.Sprintf("Decoding cached maze %s: %v", id, err))
		return nil, false
	}
	return m, true
}

func (s *MazeService) decode(ctx context.Context, record *dmn.MazeRecord) (*maze.Maze, error) {
	m, err := record.Maze()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMaze, record.ID, err)
	}
	if err := s.cache.Set(ctx, record.ID.String(), record.Blob); err != nil {
		s.logger.Warning(fmt.Sprintf("Caching maze %s: %v", record.ID, err))
	}
	return m, nil
}
