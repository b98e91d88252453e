package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/nestboxd/internal/domain"
)

// Decision is the outcome of a tenant authorization check.
type Decision int

const (
	// DecisionAuthorized allows the operation.
	DecisionAuthorized Decision = iota
	// DecisionNotAuthenticated means no valid session was presented.
	DecisionNotAuthenticated
	// DecisionWrongTenant means the nestbox is missing or owned by
	// another mandant; clients cannot tell the two apart.
	DecisionWrongTenant
)

// TenantGuard confirms that a nestbox belongs to the session's mandant
// before any mutating or tenant-scoped operation touches it.
type TenantGuard struct {
	nestboxes domain.NestboxRepository
	logger    *slog.Logger
}

// NewTenantGuard creates a new guard
func NewTenantGuard(nestboxes domain.NestboxRepository, logger *slog.Logger) *TenantGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantGuard{nestboxes: nestboxes, logger: logger}
}

// Authorize checks the session against the target nestbox. The lookup
// filters by both id and mandant, so a foreign nestbox reads exactly like
// a nonexistent one. Only store failures surface as errors.
func (g *TenantGuard) Authorize(ctx context.Context, session domain.SessionObject, nestboxUUID string) (Decision, error) {
	if !session.Valid() {
		return DecisionNotAuthenticated, nil
	}

	_, err := g.nestboxes.GetByUUIDAndMandant(ctx, nestboxUUID, session.MandantUUID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return DecisionWrongTenant, nil
		}
		return DecisionWrongTenant, fmt.Errorf("failed to authorize nestbox access: %w", err)
	}
	return DecisionAuthorized, nil
}
