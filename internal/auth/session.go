package auth

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ceica/ceicacake/internal/api"
)

// State is the session lifecycle phase.
type State string

const (
	// StateChecking is the initial phase while the persisted token is loaded.
	StateChecking        State = "checking"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// loginClient is the slice of the API client the session needs.
type loginClient interface {
	Login(ctx context.Context, username, password string) (api.TokenPair, error)
}

// Session owns authentication state. All transitions happen here: explicit
// login/logout and the forced logout fired by the API client's 401 hook.
// Other modules observe via Subscribe and never mutate the token themselves.
type Session struct {
	mu          sync.Mutex
	state       State
	access      string
	refresh     string
	store       *TokenStore
	log         *zap.Logger
	subscribers []func(State)
}

func NewSession(store *TokenStore, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{state: StateChecking, store: store, log: log}
}

// Restore loads a persisted token and settles the initial state.
func (s *Session) Restore() State {
	access, refresh, err := s.store.Load()
	s.mu.Lock()
	if err != nil || access == "" {
		if err != nil {
			s.log.Warn("session restore failed", zap.Error(err))
		}
		s.state = StateUnauthenticated
	} else {
		s.access = access
		s.refresh = refresh
		s.state = StateAuthenticated
	}
	state := s.state
	subs := s.snapshot()
	s.mu.Unlock()
	notify(subs, state)
	return state
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// State returns the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a state-change callback. Callbacks run outside the
// session lock.
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Login exchanges credentials for tokens, persists them and transitions to
// authenticated. Credential and connectivity failures leave the session
// unauthenticated and surface the typed API error.
func (s *Session) Login(ctx context.Context, client loginClient, username, password string) error {
	pair, err := client.Login(ctx, username, password)
	if err != nil {
		s.setState(StateUnauthenticated, "", "")
		if errors.Is(err, api.ErrInvalidCredentials) || errors.Is(err, api.ErrUnreachable) {
			return err
		}
		s.log.Warn("login failed", zap.Error(err))
		return err
	}
	if err := s.store.Save(pair.Access, pair.Refresh); err != nil {
		s.log.Warn("token persist failed", zap.Error(err))
	}
	s.setState(StateAuthenticated, pair.Access, pair.Refresh)
	return nil
}

// Logout clears the persisted token and transitions to unauthenticated.
func (s *Session) Logout() {
	if err := s.store.Clear(); err != nil {
		s.log.Warn("token clear failed", zap.Error(err))
	}
	s.setState(StateUnauthenticated, "", "")
}

// Invalidate is the forced-logout path, wired to the API client's 401 hook.
// Idempotent: a second 401 on an already dead session does nothing.
func (s *Session) Invalidate() {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.log.Info("session invalidated by server")
	s.Logout()
}

func (s *Session) setState(state State, access, refresh string) {
	s.mu.Lock()
	changed := s.state != state || s.access != access
	s.state = state
	s.access = access
	s.refresh = refresh
	subs := s.snapshot()
	s.mu.Unlock()
	if changed {
		notify(subs, state)
	}
}

func (s *Session) snapshot() []func(State) {
	out := make([]func(State), len(s.subscribers))
	copy(out, s.subscribers)
	return out
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}
