package components

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStream struct {
	closes int
}

func (s *fakeStream) Next() (domain.SyncEvent, error) {
	return domain.SyncEvent{}, domain.ErrStreamClosed
}

func (s *fakeStream) Close() error {
	s.closes++
	return nil
}

func activeSession() domain.SyncSession {
	return domain.SyncSession{
		ID:     42,
		Active: true,
		Status: domain.SyncProcessing,
		Accounts: []domain.AccountProgress{
			{AccountID: 7, Name: "Personal", Status: domain.SyncProcessing, Processed: 2, Total: 5},
			{AccountID: 9, Name: "Trabajo", Status: domain.SyncPending},
		},
	}
}

func TestShouldSubscribe(t *testing.T) {
	tests := []struct {
		name    string
		session domain.SyncSession
		want    bool
	}{
		{"active session", domain.SyncSession{ID: 42, Active: true}, true},
		{"inactive session", domain.SyncSession{ID: 42, Active: false}, false},
		{"no session id", domain.SyncSession{ID: 0, Active: true}, false},
		{"zero session", domain.SyncSession{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSyncPanel(discardLogger())
			p.SetSession(tt.session)
			if got := p.ShouldSubscribe(); got != tt.want {
				t.Errorf("ShouldSubscribe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldSubscribeIsIdempotent(t *testing.T) {
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	if !p.ShouldSubscribe() {
		t.Fatal("expected initial ShouldSubscribe to be true")
	}

	p.MarkAttaching()
	if p.ShouldSubscribe() {
		t.Error("ShouldSubscribe must be false while a dial is in flight")
	}

	st := &fakeStream{}
	if !p.AdoptStream(st) {
		t.Fatal("AdoptStream rejected a stream for a live panel")
	}
	if p.ShouldSubscribe() {
		t.Error("ShouldSubscribe must be false once subscribed")
	}

	// A repeated session snapshot must not trigger a second subscribe
	p.SetSession(activeSession())
	if p.ShouldSubscribe() {
		t.Error("re-loading the same session must not re-subscribe")
	}
	if st.closes != 0 {
		t.Errorf("stream closed %d times, want 0", st.closes)
	}
}

func TestAdoptStreamClosesWhenAlreadySubscribed(t *testing.T) {
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	first := &fakeStream{}
	second := &fakeStream{}

	if !p.AdoptStream(first) {
		t.Fatal("first AdoptStream rejected")
	}
	if p.AdoptStream(second) {
		t.Fatal("second AdoptStream accepted while already subscribed")
	}

	if second.closes != 1 {
		t.Errorf("duplicate stream closed %d times, want 1", second.closes)
	}
	if first.closes != 0 {
		t.Errorf("adopted stream closed %d times, want 0", first.closes)
	}
	if p.Stream() != domain.ProgressStream(first) {
		t.Error("panel no longer holds the first stream")
	}
}

func TestAdoptStreamAfterDetachClosesHandle(t *testing.T) {
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	// Dial in flight, user leaves the view before it lands
	p.MarkAttaching()
	p.Detach()

	late := &fakeStream{}
	if p.AdoptStream(late) {
		t.Fatal("AdoptStream accepted a stream after detach")
	}
	if late.closes != 1 {
		t.Errorf("late stream closed %d times, want 1", late.closes)
	}
}

func TestDetachReleasesExactlyOnce(t *testing.T) {
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	st := &fakeStream{}
	p.AdoptStream(st)

	// Detach before any event arrived still releases the handle
	p.Detach()
	if st.closes != 1 {
		t.Fatalf("stream closed %d times after detach, want 1", st.closes)
	}

	p.Detach()
	if st.closes != 1 {
		t.Errorf("stream closed %d times after second detach, want 1", st.closes)
	}
	if p.Subscribed() {
		t.Error("panel still reports subscribed after detach")
	}
}

func TestApplyProgressUpdate(t *testing.T) {
	i18n.SetLanguage("es")
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	notice := p.ApplyEvent(domain.SyncEvent{
		Type:      domain.EventProgressUpdate,
		Percent:   37,
		Processed: 10,
		Detected:  3,
	})

	if notice != nil {
		t.Errorf("progress update produced a notice: %+v", notice)
	}
	s := p.Session()
	if s.Percent != 37 || s.Processed != 10 || s.Detected != 3 {
		t.Errorf("session counters = %d/%d/%d, want 37/10/3", s.Percent, s.Processed, s.Detected)
	}
	if got := PercentLine(s.Percent); got != "37% completado" {
		t.Errorf("PercentLine = %q, want %q", got, "37% completado")
	}
}

func TestLastWriteWins(t *testing.T) {
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	p.ApplyEvent(domain.SyncEvent{Type: domain.EventProgressUpdate, Percent: 80, Processed: 20, Detected: 6})
	p.ApplyEvent(domain.SyncEvent{Type: domain.EventProgressUpdate, Percent: 40, Processed: 12, Detected: 4})

	s := p.Session()
	if s.Percent != 40 || s.Processed != 12 || s.Detected != 4 {
		t.Errorf("session counters = %d/%d/%d, want the later 40/12/4", s.Percent, s.Processed, s.Detected)
	}
}

func TestApplyCompleted(t *testing.T) {
	i18n.SetLanguage("es")
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	st := &fakeStream{}
	p.AdoptStream(st)

	notice := p.ApplyEvent(domain.SyncEvent{
		Type:      domain.EventCompleted,
		Percent:   100,
		Processed: 25,
		Detected:  8,
	})

	if notice == nil {
		t.Fatal("completed event produced no notice")
	}
	if notice.Level != NoticeSuccess {
		t.Errorf("notice level = %v, want NoticeSuccess", notice.Level)
	}
	if notice.Text != "Sincronización completada" {
		t.Errorf("notice text = %q", notice.Text)
	}

	s := p.Session()
	if s.Percent != 100 || s.Processed != 25 || s.Detected != 8 {
		t.Errorf("final counters not applied: %d/%d/%d", s.Percent, s.Processed, s.Detected)
	}
	if s.Status != domain.SyncCompleted {
		t.Errorf("session status = %q, want completed", s.Status)
	}

	// Completion does not tear down the subscription
	if !p.Subscribed() {
		t.Error("panel unsubscribed itself on completion")
	}
	if st.closes != 0 {
		t.Errorf("stream closed %d times on completion, want 0", st.closes)
	}
}

func TestApplyFailedWithServerError(t *testing.T) {
	i18n.SetLanguage("es")
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	p.ApplyEvent(domain.SyncEvent{Type: domain.EventProgressUpdate, Percent: 62, Processed: 15, Detected: 5})

	notice := p.ApplyEvent(domain.SyncEvent{
		Type:  domain.EventFailed,
		Error: "IMAP timeout: mailbox unreachable",
	})

	if notice == nil {
		t.Fatal("failed event produced no notice")
	}
	if notice.Level != NoticeError {
		t.Errorf("notice level = %v, want NoticeError", notice.Level)
	}
	if !strings.Contains(notice.Text, "IMAP timeout") {
		t.Errorf("notice text %q does not carry the server error", notice.Text)
	}

	if !p.Failed() {
		t.Error("panel not marked failed")
	}
	// Counters keep their last values, there is no rollback
	s := p.Session()
	if s.Percent != 62 || s.Processed != 15 || s.Detected != 5 {
		t.Errorf("counters rolled back: %d/%d/%d", s.Percent, s.Processed, s.Detected)
	}
}

func TestApplyFailedGenericFallback(t *testing.T) {
	i18n.SetLanguage("es")
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	notice := p.ApplyEvent(domain.SyncEvent{Type: domain.EventFailed})

	if notice == nil {
		t.Fatal("failed event produced no notice")
	}
	if notice.Text != "Error desconocido durante la sincronización" {
		t.Errorf("notice text = %q", notice.Text)
	}
}

func TestAccountUpdatePatchesRow(t *testing.T) {
	i18n.SetLanguage("es")
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	notice := p.ApplyEvent(domain.SyncEvent{
		Type:      domain.EventAccountUpdate,
		AccountID: 7,
		Processed: 5,
		Total:     5,
		Detected:  2,
		Percent:   100,
		Status:    domain.SyncCompleted,
	})

	if notice != nil {
		t.Errorf("account update produced a notice: %+v", notice)
	}

	row := p.Rows()[0]
	if row.Processed != 5 || row.Total != 5 {
		t.Errorf("row counters = %d/%d, want 5/5", row.Processed, row.Total)
	}
	if got := AccountCounter(row.Processed, row.Total); got != "5 / 5" {
		t.Errorf("AccountCounter = %q, want %q", got, "5 / 5")
	}
	if row.Status != domain.SyncCompleted {
		t.Errorf("row status = %q, want completed", row.Status)
	}
	if badge := StatusBadge(row.Status); !strings.Contains(badge, "Completado") {
		t.Errorf("badge %q does not read Completado", badge)
	}
	if row.Name != "Personal" {
		t.Errorf("row name changed to %q", row.Name)
	}

	// The sibling row is untouched
	if other := p.Rows()[1]; other.Status != domain.SyncPending || other.Processed != 0 {
		t.Errorf("sibling row mutated: %+v", other)
	}
}

func TestAccountUpdateWithoutStatusKeepsBadge(t *testing.T) {
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	p.ApplyEvent(domain.SyncEvent{
		Type:      domain.EventAccountUpdate,
		AccountID: 7,
		Processed: 3,
		Total:     5,
	})

	row := p.Rows()[0]
	if row.Status != domain.SyncProcessing {
		t.Errorf("row status = %q, want the prior processing", row.Status)
	}
	if row.Processed != 3 {
		t.Errorf("row processed = %d, want 3", row.Processed)
	}
}

func TestAccountUpdateUnknownAccountIsDropped(t *testing.T) {
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	before := append([]domain.AccountProgress(nil), p.Rows()...)

	notice := p.ApplyEvent(domain.SyncEvent{
		Type:      domain.EventAccountUpdate,
		AccountID: 99,
		Processed: 9,
		Status:    domain.SyncCompleted,
	})

	if notice != nil {
		t.Errorf("unknown account produced a notice: %+v", notice)
	}
	after := p.Rows()
	if len(after) != len(before) {
		t.Fatalf("row count changed from %d to %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("row %d mutated: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestInitialStatusResyncsEverything(t *testing.T) {
	p := NewSyncPanel(discardLogger())
	p.SetSession(domain.SyncSession{ID: 42, Active: true})

	p.ApplyEvent(domain.SyncEvent{
		Type:      domain.EventInitialStatus,
		Percent:   55,
		Processed: 11,
		Detected:  4,
		Status:    domain.SyncProcessing,
		Accounts: []domain.AccountProgress{
			{AccountID: 3, Name: "Banco", Status: domain.SyncProcessing, Processed: 11, Total: 20},
		},
	})

	s := p.Session()
	if s.Percent != 55 || s.Status != domain.SyncProcessing {
		t.Errorf("resync not applied: percent=%d status=%q", s.Percent, s.Status)
	}
	if len(p.Rows()) != 1 || p.Rows()[0].AccountID != 3 {
		t.Fatalf("account rows not rebuilt: %+v", p.Rows())
	}

	// A later account update must route through the rebuilt map
	p.ApplyEvent(domain.SyncEvent{Type: domain.EventAccountUpdate, AccountID: 3, Processed: 20, Total: 20})
	if p.Rows()[0].Processed != 20 {
		t.Errorf("rebuilt row not patched: %+v", p.Rows()[0])
	}
}

func TestUnknownEventTypeActsAsResync(t *testing.T) {
	p := NewSyncPanel(discardLogger())
	p.SetSession(activeSession())

	notice := p.ApplyEvent(domain.SyncEvent{
		Type:      "heartbeat_v2",
		Percent:   71,
		Processed: 18,
		Detected:  6,
	})

	if notice != nil {
		t.Errorf("unknown event type produced a notice: %+v", notice)
	}
	s := p.Session()
	if s.Percent != 71 || s.Processed != 18 || s.Detected != 6 {
		t.Errorf("unknown event not applied as resync: %d/%d/%d", s.Percent, s.Processed, s.Detected)
	}
}

func TestViewShowsProgressAndBadges(t *testing.T) {
	i18n.SetLanguage("es")
	p := NewSyncPanel(discardLogger())
	p.SetSize(70, 20)
	p.SetSession(activeSession())

	p.ApplyEvent(domain.SyncEvent{Type: domain.EventProgressUpdate, Percent: 37, Processed: 10, Detected: 3})
	p.ApplyEvent(domain.SyncEvent{
		Type:      domain.EventAccountUpdate,
		AccountID: 7,
		Processed: 5,
		Total:     5,
		Status:    domain.SyncCompleted,
	})

	view := p.View()
	for _, want := range []string{"37% completado", "Procesados", "10", "Detectados", "5 / 5", "Completado"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
