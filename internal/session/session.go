// Package session keeps the authenticated user's token and profile in
// the durable slot store. Login fills both slots, a 401 from the
// collaborator clears them, and every outgoing request reads the token
// from here.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"wealthify/internal/storage"
)

// User is the profile the collaborator returns on login and register.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

var ErrNoSession = errors.New("no active session")

type Manager struct {
	store *storage.Store
}

func NewManager(store *storage.Store) *Manager {
	return &Manager{store: store}
}

// Save stores the token and user atomically enough for our purposes:
// the token is written first so a crash between the two writes leaves a
// usable session.
func (m *Manager) Save(ctx context.Context, token string, user User) error {
	if err := m.store.Put(ctx, storage.SlotToken, []byte(token)); err != nil {
		return err
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return m.store.Put(ctx, storage.SlotUser, payload)
}

// Token returns the stored bearer token, or ErrNoSession.
func (m *Manager) Token(ctx context.Context) (string, error) {
	raw, ok, err := m.store.Get(ctx, storage.SlotToken)
	if err != nil {
		return "", err
	}
	if !ok || len(raw) == 0 {
		return "", ErrNoSession
	}
	return string(raw), nil
}

// User returns the stored profile, or ErrNoSession.
func (m *Manager) User(ctx context.Context) (User, error) {
	raw, ok, err := m.store.Get(ctx, storage.SlotUser)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrNoSession
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return u, nil
}

// UserID resolves the current user's id, preferring the stored profile
// and falling back to the token's subject claim. The token is parsed
// without verification: only the issuing collaborator holds the secret,
// we just need the id it embedded.
func (m *Manager) UserID(ctx context.Context) (string, error) {
	if u, err := m.User(ctx); err == nil && u.ID != "" {
		return u.ID, nil
	}
	token, err := m.Token(ctx)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrNoSession
	}
	return sub, nil
}

// Clear drops both slots. Called on logout and whenever the
// collaborator answers 401.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, storage.SlotToken); err != nil {
		return err
	}
	return m.store.Delete(ctx, storage.SlotUser)
}

// Active reports whether a token is stored.
func (m *Manager) Active(ctx context.Context) bool {
	_, err := m.Token(ctx)
	return err == nil
}
