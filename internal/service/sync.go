package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hvillar/gastos/internal/domain"
)

// SyncService controls server-side sync runs and opens live progress
// streams for them
type SyncService struct {
	repo   domain.SyncRepository
	opener domain.StreamOpener
	logger *slog.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(repo domain.SyncRepository, opener domain.StreamOpener, logger *slog.Logger) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		repo:   repo,
		opener: opener,
		logger: logger,
	}
}

// Current returns the session the server reports right now. A zero
// session means nothing is running, which is a normal state.
func (s *SyncService) Current(ctx context.Context) (domain.SyncSession, error) {
	session, err := s.repo.CurrentSession(ctx)
	if err != nil {
		s.logger.Error("failed to get current session", "error", err)
		return domain.SyncSession{}, err
	}
	return session, nil
}

// Start begins a new sync run. If one is already active the server
// returns that run instead of starting a second.
func (s *SyncService) Start(ctx context.Context) (domain.SyncSession, error) {
	session, err := s.repo.StartSession(ctx)
	if err != nil {
		s.logger.Error("failed to start sync", "error", err)
		return domain.SyncSession{}, err
	}
	s.logger.Info("sync session started", "session", session.ID)
	return session, nil
}

// Attach opens the live progress stream for a session. The caller owns
// the returned stream and must Close it. Calling Attach for a session
// that is not subscribable is a programming error.
func (s *SyncService) Attach(ctx context.Context, session domain.SyncSession) (domain.ProgressStream, error) {
	if !session.Subscribable() {
		return nil, fmt.Errorf("session %d is not subscribable", session.ID)
	}

	stream, err := s.opener.OpenProgress(ctx, session.ID)
	if err != nil {
		s.logger.Error("failed to open progress stream", "session", session.ID, "error", err)
		return nil, err
	}

	s.logger.Info("attached to sync session", "session", session.ID)
	return stream, nil
}
