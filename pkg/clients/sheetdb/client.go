// Package sheetdb talks to the spreadsheet-backed remote state endpoint: one
// URL serving GET reads of a tenant's serialized document and POST action
// envelopes for writes.
package sheetdb

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/docelar/docelar/internal/config"
	"github.com/docelar/docelar/internal/domain/models"
)

// Client exposes the remote store operations used by the application.
type Client interface {
	FetchState(ctx context.Context, companyID string) (models.AppState, error)
	PushState(ctx context.Context, companyID string, state models.AppState) error
	CreateCollaborator(ctx context.Context, req CreateCollaboratorRequest) (*CreateCollaboratorResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a remote store client using the provided configuration.
func NewClient(cfg config.SyncConfig) *APIClient {
	restyClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// stateEnvelope wraps the serialized document on reads.
type stateEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	State   models.AppState `json:"state"`
}

// syncRequest is the write envelope for a whole-document push.
type syncRequest struct {
	Action    string          `json:"action"`
	CompanyID string          `json:"companyId"`
	State     models.AppState `json:"state"`
}

// ack is the generic acknowledgement returned by POST actions.
type ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateCollaboratorRequest provisions a collaborator account remotely.
type CreateCollaboratorRequest struct {
	CompanyID string      `json:"companyId"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      models.Role `json:"role"`
	Name      string      `json:"name"`
}

// CreateCollaboratorResponse reports the remote provisioning outcome.
type CreateCollaboratorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FetchState reads the tenant's serialized state document.
func (c *APIClient) FetchState(ctx context.Context, companyID string) (models.AppState, error) {
	envelope := new(stateEnvelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("companyId", companyID).
		SetResult(envelope).
		Get("")
	if err != nil {
		return models.AppState{}, fmt.Errorf("fetch remote state: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return models.AppState{}, fmt.Errorf("remote store error: status=%d", resp.StatusCode())
	}

	if !envelope.Success {
		return models.AppState{}, fmt.Errorf("remote store rejected read: %s", envelope.Message)
	}

	return envelope.State.Normalized(), nil
}

// PushState overwrites the tenant's remote document wholesale.
func (c *APIClient) PushState(ctx context.Context, companyID string, state models.AppState) error {
	payload := syncRequest{
		Action:    "sync",
		CompanyID: companyID,
		State:     state,
	}

	result := new(ack)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		Post("")
	if err != nil {
		return fmt.Errorf("push remote state: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("remote store error: status=%d", resp.StatusCode())
	}

	if !result.Success {
		return fmt.Errorf("remote store rejected sync: %s", result.Message)
	}

	return nil
}

// CreateCollaborator provisions a collaborator account on the remote store.
func (c *APIClient) CreateCollaborator(ctx context.Context, req CreateCollaboratorRequest) (*CreateCollaboratorResponse, error) {
	payload := struct {
		Action string `json:"action"`
		CreateCollaboratorRequest
	}{Action: "create_collaborator", CreateCollaboratorRequest: req}

	result := new(CreateCollaboratorResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("create collaborator: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("remote store error: status=%d", resp.StatusCode())
	}

	return result, nil
}
