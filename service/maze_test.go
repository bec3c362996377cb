package service

import (
	"bytes"
	"context"
	"image/png"
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-maze/codec"
	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/maze/mazetest"
	"github.com/beka-birhanu/vinom-maze/prune"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mazeFixture struct {
	svc     *MazeService
	repo    *memMazeRepo
	cache   *memCache
	locker  *memLocker
	ranking *memSortedSet
	logger  *recordingLogger
}

func newMazeFixture(t *testing.T) *mazeFixture {
	t.Helper()
	f := &mazeFixture{
		repo:    newMemMazeRepo(),
		cache:   newMemCache(),
		locker:  newMemLocker(),
		ranking: newMemSortedSet(),
		logger:  &recordingLogger{},
	}
	svc, err := NewMazeService(MazeConfig{
		Repo:           f.repo,
		Cache:          f.cache,
		Locker:         f.locker,
		Ranking:        f.ranking,
		Logger:         f.logger,
		MaxFactor:      8,
		MaxCells:       10000,
		MaxRenderScale: 16,
		Rand:           rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func decodeRecord(t *testing.T, record *dmn.MazeRecord) *maze.Maze {
	t.Helper()
	m, err := record.Maze()
	require.NoError(t, err)
	return m
}

func TestNewMazeService(t *testing.T) {
	t.Run("Missing dependency", func(t *testing.T) {
		_, err := NewMazeService(MazeConfig{MaxFactor: 1, MaxCells: 4, MaxRenderScale: 1})
		assert.ErrorIs(t, err, ErrMissingDep)
	})

	t.Run("Invalid limits", func(t *testing.T) {
		_, err := NewMazeService(MazeConfig{
			Repo:    newMemMazeRepo(),
			Cache:   newMemCache(),
			Locker:  newMemLocker(),
			Ranking: newMemSortedSet(),
			Logger:  &recordingLogger{},
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Cell limit above blob capacity", func(t *testing.T) {
		_, err := NewMazeService(MazeConfig{
			Repo:           newMemMazeRepo(),
			Cache:          newMemCache(),
			Locker:         newMemLocker(),
			Ranking:        newMemSortedSet(),
			Logger:         &recordingLogger{},
			MaxFactor:      2,
			MaxCells:       codec.MaxCells + 1,
			MaxRenderScale: 2,
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestSeed(t *testing.T) {
	f := newMazeFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	record, err := f.svc.Seed(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, owner, record.Owner)
	assert.Equal(t, dmn.OriginSeed, record.Origin)
	assert.Equal(t, uuid.Nil, record.Parent)
	assert.Equal(t, 4, record.Cells)

	m := decodeRecord(t, record)
	assert.NoError(t, mazetest.CheckPerfect(m))

	assert.Contains(t, f.repo.records, record.ID)
	assert.Contains(t, f.cache.blobs, record.ID.String())
	assert.Equal(t, int64(1), f.ranking.Count(ctx, LargestKey))
}

func TestRandom(t *testing.T) {
	f := newMazeFixture(t)
	ctx := context.Background()

	record, err := f.svc.Random(ctx, uuid.New(), 12, 7)
	require.NoError(t, err)
	m := decodeRecord(t, record)
	assert.Equal(t, 12, m.Width())
	assert.Equal(t, 7, m.Height())
	assert.NoError(t, mazetest.CheckPerfect(m))

	_, err = f.svc.Random(ctx, uuid.New(), 0, 7)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = f.svc.Random(ctx, uuid.New(), 200, 200)
	assert.ErrorIs(t, err, dmn.ErrTooLarge)
}

func TestExpand(t *testing.T) {
	f := newMazeFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	seed, err := f.svc.Seed(ctx, owner)
	require.NoError(t, err)

	t.Run("Expands and records the parent", func(t *testing.T) {
		record, err := f.svc.Expand(ctx, owner, seed.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, seed.ID, record.Parent)
		assert.Equal(t, dmn.OriginExpand, record.Origin)
		assert.Equal(t, 3, record.Factor)
		assert.Equal(t, 36, record.Cells)

		m := decodeRecord(t, record)
		assert.NoError(t, mazetest.CheckPerfect(m))
		assert.Contains(t, f.locker.locked, "maze:"+seed.ID.String()+":expand")
		assert.Empty(t, f.locker.held, "lock is released")
		assert.Contains(t, f.logger.infos, "Welding")
	})

	t.Run("Invalid factor", func(t *testing.T) {
		for _, factor := range []int{0, 9} {
			_, err := f.svc.Expand(ctx, owner, seed.ID, factor)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		}
	})

	t.Run("Too large", func(t *testing.T) {
		big, err := f.svc.Random(ctx, owner, 50, 50)
		require.NoError(t, err)
		_, err = f.svc.Expand(ctx, owner, big.ID, 3)
		assert.ErrorIs(t, err, dmn.ErrTooLarge)
	})

	t.Run("Unknown maze", func(t *testing.T) {
		_, err := f.svc.Expand(ctx, owner, uuid.New(), 2)
		assert.ErrorIs(t, err, dmn.ErrMazeNotFound)
	})

	t.Run("Busy", func(t *testing.T) {
		unlock, err := f.locker.Lock(ctx, "maze:"+seed.ID.String()+":expand")
		require.NoError(t, err)
		defer unlock()

		_, err = f.svc.Expand(ctx, owner, seed.ID, 2)
		assert.ErrorIs(t, err, dmn.ErrMazeBusy)
	})
}

func TestLabyrinth(t *testing.T) {
	f := newMazeFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	source, err := f.svc.Random(ctx, owner, 5, 4)
	require.NoError(t, err)

	record, err := f.svc.Labyrinth(ctx, owner, source.ID)
	require.NoError(t, err)
	assert.Equal(t, source.ID, record.Parent)
	assert.Equal(t, 80, record.Cells)

	m := decodeRecord(t, record)
	assert.NoError(t, mazetest.CheckPerfect(m))
	assert.Len(t, mazetest.Path(m.Start(), m.End()), m.Size())
}

func TestSolve(t *testing.T) {
	f := newMazeFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	source, err := f.svc.Random(ctx, owner, 9, 9)
	require.NoError(t, err)
	sourceMaze := decodeRecord(t, source)
	want := mazetest.Path(sourceMaze.Start(), sourceMaze.End())

	record, path, err := f.svc.Solve(ctx, owner, source.ID)
	require.NoError(t, err)
	assert.Equal(t, dmn.OriginSolution, record.Origin)
	require.Len(t, path, len(want))
	for n, c := range want {
		x, y := c.Position()
		assert.Equal(t, [2]int{x, y}, path[n])
	}
	assert.Equal(t, len(path)-1, decodeRecord(t, record).OpenPassages())

	t.Run("Disconnected import", func(t *testing.T) {
		walled, err := maze.New(2, 1)
		require.NoError(t, err)
		require.NoError(t, walled.SetEnd(walled.MustCell(1, 0)))
		var buf bytes.Buffer
		_, err = walled.WriteTo(&buf)
		require.NoError(t, err)

		imported, err := f.svc.Import(ctx, owner, buf.Bytes())
		require.NoError(t, err)
		_, _, err = f.svc.Solve(ctx, owner, imported.ID)
		assert.ErrorIs(t, err, ErrInvalidMaze)
		assert.ErrorIs(t, err, prune.ErrNoPath)
	})
}

func TestReadsAreCacheFirst(t *testing.T) {
	f := newMazeFixture(t)
	ctx := context.Background()

	record, err := f.svc.Seed(ctx, uuid.New())
	require.NoError(t, err)
	reads := f.repo.reads

	_, err = f.svc.Raw(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, reads, f.repo.reads, "served from cache")

	delete(f.cache.blobs, record.ID.String())
	_, err = f.svc.Raw(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, reads+1, f.repo.reads)
	assert.Contains(t, f.cache.blobs, record.ID.String(), "cache refilled")
}

func TestCacheFailureIsNotFatal(t *testing.T) {
	f := newMazeFixture(t)
	f.cache.fail = true
	ctx := context.Background()

	record, err := f.svc.Seed(ctx, uuid.New())
	require.NoError(t, err)
	_, err = f.svc.Raw(ctx, record.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, f.logger.warnings)
}

func TestRender(t *testing.T) {
	f := newMazeFixture(t)
	ctx := context.Background()

	record, err := f.svc.Seed(ctx, uuid.New())
	require.NoError(t, err)

	data, err := f.svc.Render(ctx, record.ID, 4)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 11, img.Bounds().Dx())

	for _, scale := range []int{0, 17} {
		_, err = f.svc.Render(ctx, record.ID, scale)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	_, err = f.svc.Render(ctx, uuid.New(), 4)
	assert.ErrorIs(t, err, dmn.ErrMazeNotFound)
}

func TestRawImport(t *testing.T) {
	f := newMazeFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	record, err := f.svc.Random(ctx, owner, 6, 3)
	require.NoError(t, err)
	raw, err := f.svc.Raw(ctx, record.ID)
	require.NoError(t, err)

	imported, err := f.svc.Import(ctx, owner, raw)
	require.NoError(t, err)
	assert.Equal(t, dmn.OriginImport, imported.Origin)
	assert.True(t, decodeRecord(t, record).Equal(decodeRecord(t, imported)))

	_, err = f.svc.Import(ctx, owner, raw[:10])
	assert.ErrorIs(t, err, ErrInvalidMaze)

	big, err := maze.New(101, 100)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = big.WriteTo(&buf)
	require.NoError(t, err)
	_, err = f.svc.Import(ctx, owner, buf.Bytes())
	assert.ErrorIs(t, err, dmn.ErrTooLarge)
}

func TestLargest(t *testing.T) {
	f := newMazeFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	small, err := f.svc.Random(ctx, owner, 2, 2)
	require.NoError(t, err)
	large, err := f.svc.Random(ctx, owner, 30, 30)
	require.NoError(t, err)
	medium, err := f.svc.Random(ctx, owner, 10, 10)
	require.NoError(t, err)
	require.NoError(t, f.ranking.Add(ctx, LargestKey, 1e9, "not-a-uuid"))

	top, err := f.svc.Largest(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, large.ID, top[0].ID)
	assert.Equal(t, medium.ID, top[1].ID)
	assert.NotEqual(t, small.ID, top[1].ID)
	assert.NotEmpty(t, f.logger.warnings)

	_, err = f.svc.Largest(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
