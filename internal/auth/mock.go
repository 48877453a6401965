package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
)

// Errors returned by Mock. They are application errors so callers treat
// them exactly like a rejection from the real server.
var (
	ErrEmailRegistered    = &apiclient.Error{Kind: apiclient.KindApplication, Status: http.StatusConflict, Message: "Email already registered."}
	ErrInvalidCredentials = &apiclient.Error{Kind: apiclient.KindApplication, Status: http.StatusUnauthorized, Message: "Invalid email or password."}
	ErrAccountNotFound    = &apiclient.Error{Kind: apiclient.KindApplication, Status: http.StatusNotFound, Message: "Account not found."}
)

const mockTokenTTL = 24 * time.Hour

type account struct {
	name string
	hash []byte
}

// Mock is an in-memory identity store. It has no connection to the real
// server's accounts and forgets everything on exit.
type Mock struct {
	secret []byte
	now    func() time.Time

	mu       sync.RWMutex
	accounts map[string]account
}

func NewMock(secret string) *Mock {
	return &Mock{
		secret:   []byte(secret),
		now:      time.Now,
		accounts: make(map[string]account),
	}
}

func (m *Mock) Login(_ context.Context, email, password string) (Response, error) {
	m.mu.RLock()
	acc, ok := m.accounts[email]
	m.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := m.issue(email, acc.name)
	if err != nil {
		return nil, err
	}

	return Response{"token": token, "email": email, "name": acc.name}, nil
}

func (m *Mock) Register(_ context.Context, email, password, name string) (Response, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[email]; exists {
		return nil, ErrEmailRegistered
	}

	m.accounts[email] = account{name: name, hash: hash}

	return Response{"success": true, "message": "Registration successful!"}, nil
}

// VerifyEmail accepts any code.
func (m *Mock) VerifyEmail(context.Context, string, string) (Response, error) {
	return Response{"success": true, "message": "Email verified!"}, nil
}

func (m *Mock) ForgotPassword(context.Context, string) (Response, error) {
	return Response{"success": true, "message": "Reset code sent!"}, nil
}

// ResetPassword ignores the code and overwrites the password of a known account.
func (m *Mock) ResetPassword(_ context.Context, email, _, password string) (Response, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[email]
	if !ok {
		return nil, ErrAccountNotFound
	}

	acc.hash = hash
	m.accounts[email] = acc

	return Response{"success": true, "message": "Password reset successful!"}, nil
}

func (m *Mock) issue(email, name string) (string, error) {
	now := m.now()

	claims := jwt.MapClaims{
		"sub":  email,
		"name": name,
		"iss":  "cashtrack-mock",
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(mockTokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing mock token: %w", err)
	}

	return token, nil
}
