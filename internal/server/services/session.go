// Package services contains the server-side business logic. This file
// implements SessionService: the per-user context store and the staging &
// merge engine on top of it.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AKupriichuk/CV-on-the-Go/internal/common"
	"github.com/AKupriichuk/CV-on-the-Go/internal/dbx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/mapx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/dialog"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/repositories/repomanager"
)

// Identity is the profile a chat transport knows about a user.
type Identity struct {
	ExternalID int64
	FirstName  string
	LastName   string
	Username   string
}

// SessionService owns all reads and writes of users and their dialog
// sessions. Exactly one turn per user is assumed to be in flight at a time;
// within that assumption every mutation is load-merge-commit with the merge
// applied to a working copy, so a failed commit leaves both the stored and
// the in-memory state untouched.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager) *SessionService {
	return &SessionService{db: db, repomanager: m}
}

// GetOrCreateUser looks a user up by external chat id, creating the user and
// an initial session (step START, empty context) in one transaction when
// absent. Idempotent by external id; repeated contact refreshes the user's
// last-active marker.
func (s *SessionService) GetOrCreateUser(ctx context.Context, id Identity) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByExternalID(ctx, id.ExternalID)
	if err == nil {
		if err := repo.TouchLastActive(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("error updating last active: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	var created *models.User
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u := &models.User{
			ExternalID: id.ExternalID,
			FirstName:  id.FirstName,
			LastName:   id.LastName,
			Username:   id.Username,
		}
		var txErr error
		created, txErr = s.repomanager.Users(tx).Create(ctx, u)
		if txErr != nil {
			return fmt.Errorf("error creating user: %w", txErr)
		}

		_, txErr = s.repomanager.Sessions(tx).Create(ctx, &models.Session{
			UserID:      created.ID,
			CurrentStep: dialog.StepStart,
			Context:     mapx.Map{},
		})
		if txErr != nil {
			return fmt.Errorf("error creating session: %w", txErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetSession returns the user's session, or common.ErrorNotFound. Pure
// lookup, no mutation.
func (s *SessionService) GetSession(ctx context.Context, userID string) (*models.Session, error) {
	return s.repomanager.Sessions(s.db).GetByUserID(ctx, userID)
}

// Apply merges updates into the session context and optionally advances the
// step. Per top-level key: map merged into map recursively, anything else
// replaces wholesale. next == "" keeps the current step; any other value is
// set unconditionally. updated_at refreshes even when updates is empty.
func (s *SessionService) Apply(ctx context.Context, session *models.Session, updates mapx.Map, next dialog.Step) error {
	working := session.Context.Clone()
	if working == nil {
		working = mapx.Map{}
	}
	working.Merge(updates)

	step := session.CurrentStep
	if next != "" {
		step = next
	}

	return s.commit(ctx, session, working, step)
}

// commit persists a fully prepared working copy and only then publishes it
// to the in-memory session. On failure the prior state stays authoritative
// and the step pointer does not move.
func (s *SessionService) commit(ctx context.Context, session *models.Session, working mapx.Map, step dialog.Step) error {
	candidate := &models.Session{
		ID:          session.ID,
		UserID:      session.UserID,
		CurrentStep: step,
		Context:     working,
	}

	if err := s.repomanager.Sessions(s.db).Update(ctx, candidate); err != nil {
		return fmt.Errorf("error committing session: %w", err)
	}

	session.CurrentStep = step
	session.Context = working
	session.UpdatedAt = candidate.UpdatedAt
	return nil
}
