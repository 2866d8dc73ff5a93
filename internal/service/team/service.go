// Package team manages collaborators: the role/commission records kept in the
// state document plus the remote account provisioning call.
package team

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/domain/models"
	"github.com/docelar/docelar/internal/store"
	"github.com/docelar/docelar/pkg/clients/sheetdb"
	"github.com/docelar/docelar/pkg/ids"
)

// ErrNoSession indicates an operation was attempted while logged out.
var ErrNoSession = errors.New("no active session")

// ErrNotPermitted indicates the acting role cannot manage the team.
var ErrNotPermitted = errors.New("role cannot manage team")

// ErrNotFound indicates the referenced collaborator does not exist.
var ErrNotFound = errors.New("collaborator not found")

// ErrInvalidInput indicates a missing or out-of-range field.
var ErrInvalidInput = errors.New("invalid input")

// ErrRemoteRejected indicates the remote store refused to provision the
// account.
var ErrRemoteRejected = errors.New("remote account creation rejected")

// Service manages the collaborator collection.
type Service struct {
	store  *store.Store
	remote sheetdb.Client
	ids    ids.Generator
	logger *zap.Logger
}

// NewService constructs the team service.
func NewService(st *store.Store, remote sheetdb.Client, gen ids.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  st,
		remote: remote,
		ids:    gen,
		logger: logger,
	}
}

// AddInput describes a collaborator to provision.
type AddInput struct {
	Email          string      `json:"email" binding:"required"`
	Password       string      `json:"password" binding:"required"`
	Name           string      `json:"name" binding:"required"`
	Role           models.Role `json:"role" binding:"required"`
	CommissionRate float64     `json:"commissionRate"`
}

// Add provisions the collaborator account on the remote store first, then
// records the local collaborator entry. A remote failure leaves local state
// untouched.
func (s *Service) Add(ctx context.Context, in AddInput) (models.Collaborator, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Name) == "" || in.Password == "" {
		return models.Collaborator{}, ErrInvalidInput
	}
	if in.CommissionRate < 0 {
		return models.Collaborator{}, ErrInvalidInput
	}

	snapshot := s.store.Snapshot()
	if snapshot.User == nil {
		return models.Collaborator{}, ErrNoSession
	}
	if !snapshot.User.Role.Can(models.ActionManageTeam) {
		return models.Collaborator{}, ErrNotPermitted
	}

	resp, err := s.remote.CreateCollaborator(ctx, sheetdb.CreateCollaboratorRequest{
		CompanyID: snapshot.User.CompanyID,
		Email:     in.Email,
		Password:  in.Password,
		Role:      in.Role,
		Name:      in.Name,
	})
	if err != nil {
		return models.Collaborator{}, err
	}
	if !resp.Success {
		return models.Collaborator{}, fmt.Errorf("%w: %s", ErrRemoteRejected, resp.Message)
	}

	var created models.Collaborator
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		created = models.Collaborator{
			ID:             s.ids.NewID(),
			CompanyID:      st.User.CompanyID,
			Email:          in.Email,
			Name:           in.Name,
			Role:           in.Role,
			CommissionRate: in.CommissionRate,
		}
		st.Collaborators = append(st.Collaborators, created)
		return st
	})

	if opErr != nil {
		return models.Collaborator{}, opErr
	}

	s.logger.Info("collaborator added",
		zap.String("collaborator_id", created.ID),
		zap.String("role", string(created.Role)))
	return created, nil
}

// UpdateInput carries the editable collaborator fields.
type UpdateInput struct {
	Name           string      `json:"name"`
	Role           models.Role `json:"role"`
	CommissionRate float64     `json:"commissionRate"`
}

// Update edits a collaborator's role or commission rate. Past sales keep
// their frozen commission values.
func (s *Service) Update(id string, in UpdateInput) (models.Collaborator, error) {
	if in.CommissionRate < 0 {
		return models.Collaborator{}, ErrInvalidInput
	}

	var updated models.Collaborator
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}
		if !st.User.Role.Can(models.ActionManageTeam) {
			opErr = ErrNotPermitted
			return st
		}

		for i, c := range st.Collaborators {
			if c.ID != id {
				continue
			}
			if in.Name != "" {
				c.Name = in.Name
			}
			if in.Role != "" {
				c.Role = in.Role
			}
			c.CommissionRate = in.CommissionRate
			st.Collaborators[i] = c
			updated = c
			return st
		}
		opErr = ErrNotFound
		return st
	})

	if opErr != nil {
		return models.Collaborator{}, opErr
	}
	return updated, nil
}

// Remove deletes the local collaborator record. Like every deletion in this
// system it is a plain array filter; the remote account is not deactivated
// and an out-of-date remote document can resurrect the record on a later
// pull.
func (s *Service) Remove(id string) error {
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}
		if !st.User.Role.Can(models.ActionManageTeam) {
			opErr = ErrNotPermitted
			return st
		}

		kept := st.Collaborators[:0]
		found := false
		for _, c := range st.Collaborators {
			if c.ID == id {
				found = true
				continue
			}
			kept = append(kept, c)
		}
		if !found {
			opErr = ErrNotFound
			return st
		}
		st.Collaborators = kept
		return st
	})

	return opErr
}
