package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docelar/docelar/internal/domain/models"
	"github.com/docelar/docelar/internal/store"
)

type fakeRemote struct {
	mu         sync.Mutex
	pushes     []models.AppState
	fetchState models.AppState
	pushErr    error
	fetchErr   error
}

func (f *fakeRemote) FetchState(_ context.Context, _ string) (models.AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return models.AppState{}, f.fetchErr
	}
	return f.fetchState, nil
}

func (f *fakeRemote) PushState(_ context.Context, _ string, state models.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushes = append(f.pushes, state)
	return nil
}

func (f *fakeRemote) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func (f *fakeRemote) lastPush() models.AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushes[len(f.pushes)-1]
}

type fakeLocal struct {
	mu      sync.Mutex
	saves   []models.AppState
	loaded  models.AppState
	saveErr error
	loadErr error
}

func (f *fakeLocal) SaveState(_ context.Context, state models.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, state)
	return nil
}

func (f *fakeLocal) LoadState(_ context.Context, _ string) (models.AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return models.AppState{}, f.loadErr
	}
	return f.loaded, nil
}

func (f *fakeLocal) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func ownerSession() models.Session {
	return models.Session{UserID: "u1", CompanyID: "acme", Email: "o@acme.com", Role: models.RoleOwner, Name: "Olga"}
}

func newTestService(t *testing.T, delay time.Duration) (*Service, *store.Store, *fakeRemote, *fakeLocal) {
	t.Helper()
	st := store.New()
	remote := &fakeRemote{fetchState: models.NewAppState()}
	local := &fakeLocal{loaded: models.NewAppState()}
	svc := NewService(st, remote, local, delay, nil)
	st.OnMutate(svc.ScheduleSync)
	t.Cleanup(svc.Close)
	return svc, st, remote, local
}

func loginLocally(st *store.Store, session models.Session) {
	state := models.NewAppState()
	state.User = &session
	st.Replace(state)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDebouncedPushCoalesces(t *testing.T) {
	_, st, remote, local := newTestService(t, 30*time.Millisecond)
	loginLocally(st, ownerSession())

	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("p%d", i)
		st.Update(func(s models.AppState) models.AppState {
			s.Products = append(s.Products, models.Product{ID: name, Name: name})
			return s
		})
	}

	waitFor(t, func() bool { return remote.pushCount() > 0 })
	// Five rapid mutations, exactly one push, carrying the final document.
	assert.Equal(t, 1, remote.pushCount())
	assert.Len(t, remote.lastPush().Products, 5)
	assert.Equal(t, 1, local.saveCount())
}

func TestDebounceTimerResetsNotStacks(t *testing.T) {
	_, st, remote, _ := newTestService(t, 60*time.Millisecond)
	loginLocally(st, ownerSession())

	// Keep mutating faster than the delay: nothing may fire meanwhile.
	for i := 0; i < 4; i++ {
		st.Update(func(s models.AppState) models.AppState { return s })
		time.Sleep(20 * time.Millisecond)
		assert.Zero(t, remote.pushCount())
	}

	waitFor(t, func() bool { return remote.pushCount() == 1 })
}

func TestNonPrivilegedRolePersistsLocallyOnly(t *testing.T) {
	svc, st, remote, local := newTestService(t, 10*time.Millisecond)
	session := ownerSession()
	session.Role = models.RoleSeller
	loginLocally(st, session)

	st.Update(func(s models.AppState) models.AppState { return s })

	waitFor(t, func() bool { return local.saveCount() > 0 })
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, remote.pushCount())
	assert.Equal(t, StatusOnline, svc.Status())
}

func TestPushFailureSetsErrorWithoutRollback(t *testing.T) {
	svc, st, remote, local := newTestService(t, 10*time.Millisecond)
	remote.pushErr = errors.New("endpoint down")
	loginLocally(st, ownerSession())

	st.Update(func(s models.AppState) models.AppState {
		s.Products = append(s.Products, models.Product{ID: "p1"})
		return s
	})

	waitFor(t, func() bool { return svc.Status() == StatusError })
	// The local write happened and the in-memory document keeps the edit.
	assert.Equal(t, 1, local.saveCount())
	assert.Len(t, st.Snapshot().Products, 1)
}

func TestPullPreservesSessionAndRecovers(t *testing.T) {
	svc, st, remote, _ := newTestService(t, time.Hour)
	loginLocally(st, ownerSession())

	remote.fetchErr = errors.New("flaky")
	require.Error(t, svc.Pull(context.Background()))
	assert.Equal(t, StatusError, svc.Status())

	remote.fetchErr = nil
	remoteState := models.NewAppState()
	remoteState.User = &models.Session{UserID: "stale"}
	remoteState.Customers = []models.Customer{{ID: "c1", Name: "Maria"}}
	remote.fetchState = remoteState

	require.NoError(t, svc.Pull(context.Background()))
	assert.Equal(t, StatusOnline, svc.Status())

	snap := st.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "u1", snap.User.UserID)
	assert.Len(t, snap.Customers, 1)
}

func TestPullWithoutSession(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour)
	assert.ErrorIs(t, svc.Pull(context.Background()), ErrNoSession)
}

func TestLoginHydratesFromLocalStore(t *testing.T) {
	svc, st, remote, local := newTestService(t, time.Hour)

	persisted := models.NewAppState()
	persisted.Products = []models.Product{{ID: "p1", Name: "Pudim"}}
	local.loaded = persisted
	remote.fetchErr = errors.New("offline") // pull is best effort

	require.NoError(t, svc.Login(context.Background(), ownerSession()))

	snap := st.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "acme", snap.User.CompanyID)
	assert.Len(t, snap.Products, 1)
}

func TestLoginFallsBackToSkeletonOnLoadFailure(t *testing.T) {
	svc, st, remote, local := newTestService(t, time.Hour)
	local.loadErr = errors.New("corrupt document")
	remote.fetchErr = errors.New("offline")

	require.NoError(t, svc.Login(context.Background(), ownerSession()))

	snap := st.Snapshot()
	require.NotNil(t, snap.User)
	assert.NotNil(t, snap.Products)
	assert.Empty(t, snap.Products)
}

func TestLogoutPersistsAndClears(t *testing.T) {
	svc, st, _, local := newTestService(t, time.Hour)
	loginLocally(st, ownerSession())

	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, 1, local.saveCount())
	assert.Nil(t, st.Snapshot().User)
}
