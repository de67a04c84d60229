package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ceica/ceicacake/internal/api"
)

type fakeLogin struct {
	pair api.TokenPair
	err  error
}

func (f fakeLogin) Login(context.Context, string, string) (api.TokenPair, error) {
	return f.pair, f.err
}

func TestTokenStoreRoundtrip(t *testing.T) {
	store := NewTokenStore(t.TempDir())

	require.NoError(t, store.Save("acc-token", "ref-token"))
	access, refresh, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "acc-token", access)
	require.Equal(t, "ref-token", refresh)

	require.NoError(t, store.Clear())
	access, _, err = store.Load()
	require.NoError(t, err)
	require.Empty(t, access)

	// clearing an already empty store is fine
	require.NoError(t, store.Clear())
}

func TestRestoreWithoutTokenIsUnauthenticated(t *testing.T) {
	s := NewSession(NewTokenStore(t.TempDir()), nil)
	require.Equal(t, StateChecking, s.State())
	require.Equal(t, StateUnauthenticated, s.Restore())
	require.Empty(t, s.Token())
}

func TestRestoreWithPersistedToken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewTokenStore(dir).Save("persisted", "r"))

	s := NewSession(NewTokenStore(dir), nil)
	require.Equal(t, StateAuthenticated, s.Restore())
	require.Equal(t, "persisted", s.Token())
}

func TestLoginSuccessPersistsAndNotifies(t *testing.T) {
	dir := t.TempDir()
	s := NewSession(NewTokenStore(dir), nil)

	var seen []State
	s.Subscribe(func(st State) { seen = append(seen, st) })

	err := s.Login(context.Background(), fakeLogin{pair: api.TokenPair{Access: "a", Refresh: "r"}}, "user", "pass")
	require.NoError(t, err)
	require.Equal(t, StateAuthenticated, s.State())
	require.Equal(t, "a", s.Token())
	require.Equal(t, []State{StateAuthenticated}, seen)

	access, _, err := NewTokenStore(dir).Load()
	require.NoError(t, err)
	require.Equal(t, "a", access)
}

func TestLoginBadCredentials(t *testing.T) {
	s := NewSession(NewTokenStore(t.TempDir()), nil)

	err := s.Login(context.Background(), fakeLogin{err: api.ErrInvalidCredentials}, "user", "nope")
	require.ErrorIs(t, err, api.ErrInvalidCredentials)
	require.Equal(t, StateUnauthenticated, s.State())
	require.Empty(t, s.Token())
}

func TestInvalidateClearsTokenOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewTokenStore(dir).Save("live", "r"))
	s := NewSession(NewTokenStore(dir), nil)
	s.Restore()

	transitions := 0
	s.Subscribe(func(State) { transitions++ })

	s.Invalidate()
	require.Equal(t, StateUnauthenticated, s.State())
	require.Empty(t, s.Token())
	require.Equal(t, 1, transitions)

	access, _, err := NewTokenStore(dir).Load()
	require.NoError(t, err)
	require.Empty(t, access)

	// second 401 on a dead session is a no-op
	s.Invalidate()
	require.Equal(t, 1, transitions)
}
