// Package sync implements the reconciliation service: debounced persistence
// of the state document to the local durable store, role-gated pushes to the
// remote spreadsheet-backed store, pulls with an identity-preserving merge,
// and the three-state status indicator the UI surfaces.
package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/domain/models"
	"github.com/docelar/docelar/internal/store"
)

// Status is the observable reconciliation state.
type Status string

const (
	StatusOnline  Status = "online"
	StatusSyncing Status = "syncing"
	StatusError   Status = "error"
)

// ErrNoSession indicates a reconciliation operation was requested while no
// user is logged in.
var ErrNoSession = errors.New("no active session")

// RemoteStore is the remote spreadsheet-backed state endpoint.
type RemoteStore interface {
	FetchState(ctx context.Context, companyID string) (models.AppState, error)
	PushState(ctx context.Context, companyID string, state models.AppState) error
}

// LocalStore is the durable per-tenant document store.
type LocalStore interface {
	SaveState(ctx context.Context, state models.AppState) error
	LoadState(ctx context.Context, companyID string) (models.AppState, error)
}

// Service ties the in-memory store to the local and remote persistence
// layers. A push failure never rolls back the local write and is not retried
// automatically; the next debounced mutation or a manual pull recovers.
type Service struct {
	store  *store.Store
	remote RemoteStore
	local  LocalStore
	logger *zap.Logger

	debounce  *debouncer
	opTimeout time.Duration

	mu     sync.RWMutex
	status Status
}

// NewService wires the reconciliation service. The debounce delay is how long
// after the last mutation the persist/push cycle runs.
func NewService(st *store.Store, remote RemoteStore, local LocalStore, debounceDelay time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:     st,
		remote:    remote,
		local:     local,
		logger:    logger,
		opTimeout: 30 * time.Second,
		status:    StatusOnline,
	}
	s.debounce = newDebouncer(debounceDelay, s.flush)
	return s
}

// Status returns the current reconciliation status.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Service) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// ScheduleSync arms (or re-arms) the debounced persist/push cycle. Wired as
// the store's mutation hook.
func (s *Service) ScheduleSync() {
	s.debounce.Trigger()
}

// Close cancels any pending debounced cycle.
func (s *Service) Close() {
	s.debounce.Stop()
}

// flush runs one persist/push cycle with the latest document. The local write
// always happens first so no data is lost when the network call fails; the
// remote write only happens for roles privileged to overwrite the shared
// remote document.
func (s *Service) flush() {
	state := s.store.Snapshot()
	if state.User == nil {
		return
	}

	s.setStatus(StatusSyncing)

	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	if err := s.local.SaveState(ctx, state); err != nil {
		s.logger.Error("local persist failed", zap.Error(err), zap.String("company_id", state.User.CompanyID))
		s.setStatus(StatusError)
		return
	}

	if !state.User.Role.Can(models.ActionPushRemote) {
		s.logger.Debug("remote push skipped for role", zap.String("role", string(state.User.Role)))
		s.setStatus(StatusOnline)
		return
	}

	if err := s.remote.PushState(ctx, state.User.CompanyID, state); err != nil {
		s.logger.Error("remote push failed", zap.Error(err), zap.String("company_id", state.User.CompanyID))
		s.setStatus(StatusError)
		return
	}

	s.setStatus(StatusOnline)
}

// Pull fetches the remote document for the active tenant and overlays it onto
// the local document, preserving the current session identity. Also exposed
// as the manual retry action.
func (s *Service) Pull(ctx context.Context) error {
	local := s.store.Snapshot()
	if local.User == nil {
		return ErrNoSession
	}

	s.setStatus(StatusSyncing)

	remote, err := s.remote.FetchState(ctx, local.User.CompanyID)
	if err != nil {
		s.setStatus(StatusError)
		return err
	}

	s.store.Replace(Merge(local, remote))
	s.setStatus(StatusOnline)
	return nil
}

// Login hydrates the store for a fresh session: the tenant's locally
// persisted document when one exists, the empty skeleton otherwise. A best-
// effort pull then overlays the remote copy; its failure only surfaces
// through the status indicator.
func (s *Service) Login(ctx context.Context, session models.Session) error {
	state, err := s.local.LoadState(ctx, session.CompanyID)
	if err != nil {
		s.logger.Warn("local state load failed, starting from skeleton", zap.Error(err), zap.String("company_id", session.CompanyID))
		state = models.NewAppState()
	}

	state = state.Normalized()
	state.User = &session
	s.store.Replace(state)

	if err := s.Pull(ctx); err != nil {
		s.logger.Warn("initial pull failed", zap.Error(err), zap.String("company_id", session.CompanyID))
	}
	return nil
}

// Logout persists the current document one last time and clears the store.
func (s *Service) Logout(ctx context.Context) error {
	s.debounce.Stop()

	state := s.store.Snapshot()
	if state.User != nil {
		if err := s.local.SaveState(ctx, state); err != nil {
			s.logger.Error("final persist on logout failed", zap.Error(err))
		}
	}

	s.store.Reset()
	return nil
}
