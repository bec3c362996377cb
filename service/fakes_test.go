package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

type memMazeRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*dmn.MazeRecord
	reads   int
}

func newMemMazeRepo() *memMazeRepo {
	return &memMazeRepo{records: map[uuid.UUID]*dmn.MazeRecord{}}
}

func (r *memMazeRepo) Save(_ context.Context, record *dmn.MazeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
	return nil
}

func (r *memMazeRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.MazeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	record, ok := r.records[id]
	if !ok {
		return nil, dmn.ErrMazeNotFound
	}
	return record, nil
}

func (r *memMazeRepo) ByIDs(_ context.Context, ids []uuid.UUID) ([]*dmn.MazeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*dmn.MazeRecord
	for _, id := range ids {
		if record, ok := r.records[id]; ok {
			result = append(result, record)
		}
	}
	return result, nil
}

type memCache struct {
	mu    sync.Mutex
	blobs map[string][]byte
	fail  bool
}

func newMemCache() *memCache {
	return &memCache{blobs: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, errors.New("cache down")
	}
	blob, ok := c.blobs[key]
	if !ok {
		return nil, i.ErrCacheMiss
	}
	return blob, nil
}

func (c *memCache) Set(_ context.Context, key string, blob []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache down")
	}
	c.blobs[key] = blob
	return nil
}

type memLocker struct {
	mu     sync.Mutex
	held   map[string]bool
	locked []string
}

func newMemLocker() *memLocker {
	return &memLocker{held: map[string]bool{}}
}

func (l *memLocker) Lock(_ context.Context, name string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] {
		return nil, dmn.ErrMazeBusy
	}
	l.held[name] = true
	l.locked = append(l.locked, name)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, name)
	}, nil
}

type memSortedSet struct {
	mu     sync.Mutex
	scores map[string]map[string]float64
}

func newMemSortedSet() *memSortedSet {
	return &memSortedSet{scores: map[string]map[string]float64{}}
}

func (s *memSortedSet) Add(_ context.Context, key string, score float64, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scores[key] == nil {
		s.scores[key] = map[string]float64{}
	}
	s.scores[key][member] = score
	return nil
}

func (s *memSortedSet) Top(_ context.Context, key string, n int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := make([]string, 0, len(s.scores[key]))
	for m := range s.scores[key] {
		members = append(members, m)
	}
	sort.Slice(members, func(a, b int) bool {
		return s.scores[key][members[a]] > s.scores[key][members[b]]
	})
	if int64(len(members)) > n {
		members = members[:n]
	}
	return members, nil
}

func (s *memSortedSet) Count(_ context.Context, key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.scores[key]))
}

type recordingLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *recordingLogger) Error(string) {}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*dmn.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*dmn.User{}}
}

func (r *memUserRepo) Save(_ context.Context, user *dmn.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, dmn.ErrUserNotFound
	}
	return user, nil
}

func (r *memUserRepo) ByUsername(_ context.Context, username string) (*dmn.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, dmn.ErrUserNotFound
}

type fakeTokenizer struct {
	claims map[string]interface{}
	exp    time.Duration
}

func (f *fakeTokenizer) Generate(claims map[string]interface{}, exp time.Duration) (string, error) {
	f.claims, f.exp = claims, exp
	return "token", nil
}

func (f *fakeTokenizer) Decode(string) (map[string]interface{}, error) {
	return f.claims, nil
}
