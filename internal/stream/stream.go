// Package stream dials the expense server's live sync progress feed.
// One Subscription wraps one WebSocket connection; events are handed to
// the caller in server order, exactly as received.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hvillar/gastos/internal/domain"
)

const closeGrace = time.Second

// Opener dials progress streams. It implements domain.StreamOpener.
type Opener struct {
	baseURL  string
	token    string
	clientID string
	logger   *slog.Logger
}

// NewOpener creates an Opener for the given server. baseURL uses the
// http(s) scheme, the same value the REST client gets.
func NewOpener(baseURL, token string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		baseURL:  baseURL,
		token:    token,
		clientID: uuid.NewString(),
		logger:   logger,
	}
}

// OpenProgress dials the stream for one session
func (o *Opener) OpenProgress(ctx context.Context, sessionID int64) (domain.ProgressStream, error) {
	wsURL, err := o.streamURL(sessionID)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+o.token)
	header.Set("X-Client-Identifier", o.clientID)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				return nil, domain.ErrAuthFailed
			case http.StatusNotFound:
				return nil, domain.ErrSessionNotFound
			}
		}
		o.logger.Error("progress stream dial failed", "session", sessionID, "error", err)
		return nil, domain.ErrServerOffline
	}

	o.logger.Debug("progress stream open", "session", sessionID)
	return &Subscription{conn: conn, logger: o.logger}, nil
}

// streamURL converts the http(s) base URL into the ws(s) endpoint for
// a session
func (o *Opener) streamURL(sessionID int64) (string, error) {
	u, err := url.Parse(o.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = fmt.Sprintf("/ws/sync/%d", sessionID)
	return u.String(), nil
}

// Subscription is one live progress feed. It implements
// domain.ProgressStream.
type Subscription struct {
	conn      *websocket.Conn
	logger    *slog.Logger
	closeOnce sync.Once
	closed    atomic.Bool
	closeErr  error
}

// envelope is the flat wire shape every event type shares. Fields the
// server omits decode to their zero value.
type envelope struct {
	Type      string            `json:"type"`
	Percent   int               `json:"progress_percentage"`
	Processed int               `json:"processed_emails"`
	Detected  int               `json:"detected_expenses"`
	Total     int               `json:"total_emails"`
	AccountID int64             `json:"account_id"`
	Status    string            `json:"status"`
	Error     string            `json:"error"`
	Accounts  []accountEnvelope `json:"accounts"`
}

type accountEnvelope struct {
	AccountID int64  `json:"account_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Processed int    `json:"processed_emails"`
	Total     int    `json:"total_emails"`
	Detected  int    `json:"detected_expenses"`
	Percent   int    `json:"progress_percentage"`
}

func (e envelope) toDomain() domain.SyncEvent {
	accounts := make([]domain.AccountProgress, 0, len(e.Accounts))
	for _, a := range e.Accounts {
		accounts = append(accounts, domain.AccountProgress{
			AccountID: a.AccountID,
			Name:      a.Name,
			Email:     a.Email,
			Status:    domain.SyncStatus(a.Status),
			Processed: a.Processed,
			Total:     a.Total,
			Detected:  a.Detected,
			Percent:   a.Percent,
		})
	}
	return domain.SyncEvent{
		Type:      e.Type,
		Percent:   e.Percent,
		Processed: e.Processed,
		Detected:  e.Detected,
		Total:     e.Total,
		AccountID: e.AccountID,
		Status:    domain.SyncStatus(e.Status),
		Error:     e.Error,
		Accounts:  accounts,
	}
}

// Next blocks until the next event arrives. Payloads that fail to
// decode are logged and skipped; the stream stays open. A connection
// error ends the stream, reported as ErrStreamClosed when the close
// was local.
func (s *Subscription) Next() (domain.SyncEvent, error) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return domain.SyncEvent{}, domain.ErrStreamClosed
			}
			return domain.SyncEvent{}, fmt.Errorf("progress stream read: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.logger.Warn("skipping malformed progress event", "error", err)
			continue
		}
		return env.toDomain(), nil
	}
}

// Close releases the connection. Safe to call more than once and safe
// to call while Next is blocked; a blocked Next returns ErrStreamClosed.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		// Best-effort close frame so the server drops its listener promptly
		deadline := time.Now().Add(closeGrace)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
