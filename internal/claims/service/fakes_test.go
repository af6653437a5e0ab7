package service

import (
	"context"
	"sort"
	"sync"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
	"github.com/aussiebroadwan/docqa/internal/claims/store"
)

// fakeProfiles is an in-memory store.Profiles with failure injection.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile

	// taken marks usernames as existing without backing profiles.
	taken map[string]bool

	getErr    error
	existsErr error
	assignErr error
	createErr error
	listErr   error

	// assignErrFor fails AssignUsername for specific profile ids.
	assignErrFor map[string]error

	existsCalls int
	assigned    []domain.Profile
	created     []domain.Profile
}

var _ store.Profiles = (*fakeProfiles)(nil)

func newFakeProfiles(profiles ...domain.Profile) *fakeProfiles {
	f := &fakeProfiles{
		profiles:     map[string]domain.Profile{},
		taken:        map[string]bool{},
		assignErrFor: map[string]error{},
	}
	for _, p := range profiles {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) GetProfile(_ context.Context, id string) (domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.Profile{}, f.getErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return domain.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) UsernameExists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.usernameTakenLocked(username), nil
}

func (f *fakeProfiles) usernameTakenLocked(username string) bool {
	if f.taken[username] {
		return true
	}
	for _, p := range f.profiles {
		if p.Username != nil && *p.Username == username {
			return true
		}
	}
	return false
}

func (f *fakeProfiles) CreateProfile(_ context.Context, p domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	if _, ok := f.profiles[p.ID]; ok {
		return store.ErrAlreadyExists
	}
	if p.Username != nil && f.usernameTakenLocked(*p.Username) {
		return store.ErrAlreadyExists
	}
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfiles) AssignUsername(_ context.Context, p domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned = append(f.assigned, p)
	if f.assignErr != nil {
		return f.assignErr
	}
	if err := f.assignErrFor[p.ID]; err != nil {
		return err
	}
	cur, ok := f.profiles[p.ID]
	if ok && cur.HasUsername() {
		return store.ErrUsernameSet
	}
	if p.Username != nil && f.usernameTakenLocked(*p.Username) {
		return store.ErrAlreadyExists
	}
	if !ok {
		cur = p
	}
	cur.Username = p.Username
	f.profiles[p.ID] = cur
	return nil
}

func (f *fakeProfiles) ListProfilesMissingUsername(_ context.Context, afterID string, limit int) ([]domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Profile
	for _, p := range f.profiles {
		if !p.HasUsername() && p.ID > afterID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProfiles) usernameOf(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[id].UsernameOrEmpty()
}

func strPtr(s string) *string { return &s }

// fakeStore serves the same fakeProfiles inside and outside transactions and
// counts how each transaction ended.
type fakeStore struct {
	profiles *fakeProfiles
	txErr    error

	begun     int
	commits   int
	rollbacks int
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore(f *fakeProfiles) *fakeStore {
	return &fakeStore{profiles: f}
}

func (s *fakeStore) Profiles() store.Profiles       { return s.profiles }
func (s *fakeStore) ApplyMigrations() error         { return nil }
func (s *fakeStore) Close() error                   { return nil }
func (s *fakeStore) Ping(ctx context.Context) error { return nil }

func (s *fakeStore) Tx(ctx context.Context) (store.Tx, error) {
	if s.txErr != nil {
		return nil, s.txErr
	}
	s.begun++
	return &fakeTx{fakeStore: s}, nil
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type fakeTx struct {
	*fakeStore
}

func (t *fakeTx) Commit() error   { t.commits++; return nil }
func (t *fakeTx) Rollback() error { t.rollbacks++; return nil }
