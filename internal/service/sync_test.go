package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hvillar/gastos/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStream struct {
	events []domain.SyncEvent
	pos    int
	closes int
}

func (f *fakeStream) Next() (domain.SyncEvent, error) {
	if f.pos >= len(f.events) {
		return domain.SyncEvent{}, domain.ErrStreamClosed
	}
	ev := f.events[f.pos]
	f.pos++
	return ev, nil
}

func (f *fakeStream) Close() error {
	f.closes++
	return nil
}

type fakeOpener struct {
	opens   int
	lastID  int64
	stream  *fakeStream
	openErr error
}

func (f *fakeOpener) OpenProgress(ctx context.Context, sessionID int64) (domain.ProgressStream, error) {
	f.opens++
	f.lastID = sessionID
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.stream, nil
}

type fakeSyncRepo struct {
	current domain.SyncSession
	started domain.SyncSession
	err     error
}

func (f *fakeSyncRepo) CurrentSession(ctx context.Context) (domain.SyncSession, error) {
	return f.current, f.err
}

func (f *fakeSyncRepo) StartSession(ctx context.Context) (domain.SyncSession, error) {
	return f.started, f.err
}

func TestAttachRejectsNonSubscribable(t *testing.T) {
	tests := []struct {
		name    string
		session domain.SyncSession
	}{
		{"inactive session", domain.SyncSession{ID: 42, Active: false}},
		{"missing id", domain.SyncSession{ID: 0, Active: true}},
		{"zero session", domain.SyncSession{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &fakeOpener{stream: &fakeStream{}}
			svc := NewSyncService(&fakeSyncRepo{}, opener, discardLogger())

			if _, err := svc.Attach(context.Background(), tt.session); err == nil {
				t.Error("expected error for non-subscribable session")
			}
			if opener.opens != 0 {
				t.Errorf("opener dialed %d times, want 0", opener.opens)
			}
		})
	}
}

func TestAttachOpensStream(t *testing.T) {
	stream := &fakeStream{}
	opener := &fakeOpener{stream: stream}
	svc := NewSyncService(&fakeSyncRepo{}, opener, discardLogger())

	got, err := svc.Attach(context.Background(), domain.SyncSession{ID: 42, Active: true})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if opener.opens != 1 || opener.lastID != 42 {
		t.Errorf("opener: opens=%d lastID=%d", opener.opens, opener.lastID)
	}
	if got != domain.ProgressStream(stream) {
		t.Error("Attach must hand back the opener's stream")
	}
}

func TestAttachPropagatesDialError(t *testing.T) {
	opener := &fakeOpener{openErr: domain.ErrServerOffline}
	svc := NewSyncService(&fakeSyncRepo{}, opener, discardLogger())

	_, err := svc.Attach(context.Background(), domain.SyncSession{ID: 7, Active: true})
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Errorf("err = %v, want ErrServerOffline", err)
	}
}

func TestCurrentPassesThroughZeroSession(t *testing.T) {
	svc := NewSyncService(&fakeSyncRepo{}, &fakeOpener{}, discardLogger())

	session, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if session.Subscribable() {
		t.Error("zero session must not be subscribable")
	}
}
