package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(rootCmd, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "gastos "+Version) {
		t.Errorf("output %q missing version line", out)
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", "(not set)"},
		{"short", "****"},
		{"12345678", "****"},
		{"secret-token-xyz9", "secr...xyz9"},
	}

	for _, tt := range tests {
		if got := maskToken(tt.token); got != tt.want {
			t.Errorf("maskToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

type scriptedFeed struct {
	events []domain.SyncEvent
	pos    int
}

func (f *scriptedFeed) Next() (domain.SyncEvent, error) {
	if f.pos >= len(f.events) {
		return domain.SyncEvent{}, domain.ErrStreamClosed
	}
	ev := f.events[f.pos]
	f.pos++
	return ev, nil
}

func (f *scriptedFeed) Close() error { return nil }

func TestFollowPrintsRunToCompletion(t *testing.T) {
	feed := &scriptedFeed{events: []domain.SyncEvent{
		{
			Type: domain.EventInitialStatus, Percent: 10, Processed: 12, Detected: 1,
			Accounts: []domain.AccountProgress{{AccountID: 1, Name: "Gmail personal"}},
		},
		{Type: domain.EventProgressUpdate, Percent: 40, Processed: 160, Detected: 9},
		{Type: domain.EventAccountUpdate, AccountID: 1, Percent: 80, Processed: 80, Total: 100},
		{Type: domain.EventAccountUpdate, AccountID: 99, Percent: 50, Processed: 5, Total: 10},
		{Type: domain.EventCompleted, Percent: 100, Processed: 400, Detected: 23},
	}}

	var out bytes.Buffer
	if err := follow(&out, feed, domain.SyncSession{ID: 42, Active: true}); err != nil {
		t.Fatalf("follow: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"10%",
		"40%",
		"Gmail personal: 80% (80/100)",
		"#99: 50% (5/10)",
		i18n.T(i18n.KeySyncCompleted),
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestFollowAccountNamesFromSession(t *testing.T) {
	feed := &scriptedFeed{events: []domain.SyncEvent{
		{Type: domain.EventAccountUpdate, AccountID: 2, Percent: 30, Processed: 3, Total: 10},
		{Type: domain.EventCompleted},
	}}

	session := domain.SyncSession{
		ID: 7, Active: true,
		Accounts: []domain.AccountProgress{{AccountID: 2, Name: "Outlook trabajo"}},
	}

	var out bytes.Buffer
	if err := follow(&out, feed, session); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if !strings.Contains(out.String(), "Outlook trabajo: 30%") {
		t.Errorf("account name from the session snapshot not used:\n%s", out.String())
	}
}

func TestFollowReportsFailure(t *testing.T) {
	tests := []struct {
		name    string
		event   domain.SyncEvent
		wantErr string
	}{
		{
			"server error detail",
			domain.SyncEvent{Type: domain.EventFailed, Error: "IMAP timeout tras 30s"},
			i18n.T(i18n.KeySyncFailed) + ": IMAP timeout tras 30s",
		},
		{
			"generic fallback",
			domain.SyncEvent{Type: domain.EventFailed},
			i18n.T(i18n.KeySyncErrorGeneric),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := &scriptedFeed{events: []domain.SyncEvent{tt.event}}

			var out bytes.Buffer
			err := follow(&out, feed, domain.SyncSession{ID: 1, Active: true})
			if err == nil {
				t.Fatal("failed run must return an error")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("err = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestFollowErrsWhenStreamDiesEarly(t *testing.T) {
	feed := &scriptedFeed{events: []domain.SyncEvent{
		{Type: domain.EventProgressUpdate, Percent: 55, Processed: 200, Detected: 11},
	}}

	var out bytes.Buffer
	err := follow(&out, feed, domain.SyncSession{ID: 1, Active: true})
	if !errors.Is(err, domain.ErrStreamClosed) {
		t.Errorf("err = %v, want wrapped ErrStreamClosed", err)
	}
	if !strings.Contains(out.String(), "55%") {
		t.Errorf("events before the drop must still print:\n%s", out.String())
	}
}
