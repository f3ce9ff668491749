package components

import (
	"strings"
	"testing"
)

func TestToastsPushAndExpire(t *testing.T) {
	toasts := NewToasts()

	cmd1 := toasts.Push(ToastSuccess, "Sincronización completada")
	cmd2 := toasts.Push(ToastError, "Error de sincronización: IMAP timeout")

	if cmd1 == nil || cmd2 == nil {
		t.Fatal("Push must schedule a dismissal command")
	}
	if toasts.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", toasts.Count())
	}

	first := toasts.Items()[0].ID
	toasts.Expire(first)

	if toasts.Count() != 1 {
		t.Fatalf("Count() = %d after expiry, want 1", toasts.Count())
	}
	if toasts.Items()[0].Level != ToastError {
		t.Error("wrong toast removed")
	}

	// Expiring the same ID again is a no-op
	toasts.Expire(first)
	if toasts.Count() != 1 {
		t.Errorf("Count() = %d after repeated expiry, want 1", toasts.Count())
	}
}

func TestToastsExpireUnknownID(t *testing.T) {
	toasts := NewToasts()
	toasts.Push(ToastInfo, "hola")

	toasts.Expire(99)
	if toasts.Count() != 1 {
		t.Errorf("Count() = %d, want 1", toasts.Count())
	}
}

func TestToastsIDsAreUnique(t *testing.T) {
	toasts := NewToasts()
	toasts.Push(ToastInfo, "a")
	toasts.Push(ToastInfo, "b")
	id := toasts.Items()[1].ID
	toasts.Expire(toasts.Items()[0].ID)

	// A new toast never reuses a live or expired ID
	toasts.Push(ToastInfo, "c")
	seen := map[int]bool{}
	for _, toast := range toasts.Items() {
		if seen[toast.ID] {
			t.Fatalf("duplicate toast ID %d", toast.ID)
		}
		seen[toast.ID] = true
	}
	if !seen[id] {
		t.Error("surviving toast lost its ID")
	}
}

func TestToastsView(t *testing.T) {
	toasts := NewToasts()
	toasts.Push(ToastSuccess, "Sincronización completada")

	view := toasts.View(60)
	if !strings.Contains(view, "Sincronización completada") {
		t.Errorf("view missing toast text:\n%s", view)
	}

	empty := NewToasts()
	if empty.View(60) != "" {
		t.Error("empty stack renders text")
	}
}
