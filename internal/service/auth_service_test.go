package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget_tracker/internal/models"
	"budget_tracker/internal/repository"
)

// mockUsers is a lightweight in-test mock for repository.Users.
type mockUsers struct {
	CreateFn        func(username, email, hash string) (int, error)
	GetByIDFn       func(id int) (*models.User, error)
	GetByUsernameFn func(username string) (*models.User, error)
	DeleteFn        func(id int) error

	createCalls []struct {
		username string
		email    string
		hash     string
	}
	deleteCalls []int
}

func (m *mockUsers) Create(_ context.Context, username, email, hash string, _ time.Time) (int, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		email    string
		hash     string
	}{username, email, hash})
	return m.CreateFn(username, email, hash)
}

func (m *mockUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	if m.GetByIDFn == nil {
		return nil, nil
	}
	return m.GetByIDFn(id)
}

func (m *mockUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.GetByUsernameFn(username)
}

func (m *mockUsers) Delete(_ context.Context, id int) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(id)
}

// mockSessions is an in-memory repository.Sessions.
type mockSessions struct {
	store map[string]models.Session

	createErr error
	getErr    error
}

func newMockSessions() *mockSessions {
	return &mockSessions{store: make(map[string]models.Session)}
}

func (m *mockSessions) Create(_ context.Context, s models.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.store[s.ID] = s
	return nil
}

func (m *mockSessions) Get(_ context.Context, id string) (*models.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *mockSessions) Delete(_ context.Context, id string) (bool, error) {
	_, ok := m.store[id]
	delete(m.store, id)
	return ok, nil
}

func (m *mockSessions) DeleteForUser(_ context.Context, userID int) error {
	for id, s := range m.store {
		if s.UserID == userID {
			delete(m.store, id)
		}
	}
	return nil
}

func newTestAuthService(users *mockUsers, sessions *mockSessions) *AuthService {
	return NewAuthService(users, sessions, AuthConfig{SigningKey: "test-key", TokenTTL: time.Hour})
}

// --- SignUp tests ---

func TestAuthService_SignUp_HashesPasswordAndCallsRepo(t *testing.T) {
	users := &mockUsers{
		CreateFn: func(username, email, hash string) (int, error) { return 42, nil },
	}
	svc := newTestAuthService(users, newMockSessions())

	id, err := svc.SignUp(context.Background(), "alice", "alice@example.com", "s3cr3tpass")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}

	if len(users.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(users.createCalls))
	}
	call := users.createCalls[0]
	if call.username != "alice" || call.email != "alice@example.com" {
		t.Errorf("unexpected identity: %+v", call)
	}
	if call.hash == "s3cr3tpass" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(call.hash, "s3cr3tpass"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
}

func TestAuthService_SignUp_WeakPassword(t *testing.T) {
	users := &mockUsers{
		CreateFn: func(username, email, hash string) (int, error) {
			t.Fatal("Create should not be called for a weak password")
			return 0, nil
		},
	}
	svc := newTestAuthService(users, newMockSessions())

	_, err := svc.SignUp(context.Background(), "bob", "bob@example.com", "short")
	if !errors.Is(err, ErrWeakCredential) {
		t.Fatalf("expected ErrWeakCredential, got %v", err)
	}
}

func TestAuthService_SignUp_MissingFields(t *testing.T) {
	users := &mockUsers{
		CreateFn: func(username, email, hash string) (int, error) {
			t.Fatal("Create should not be called for invalid input")
			return 0, nil
		},
	}
	svc := newTestAuthService(users, newMockSessions())

	for _, tc := range []struct{ username, email string }{
		{"", "a@example.com"},
		{"a", ""},
		{"a", "not-an-email"},
	} {
		if _, err := svc.SignUp(context.Background(), tc.username, tc.email, "longenough"); !errors.Is(err, ErrValidation) {
			t.Fatalf("SignUp(%q, %q): expected ErrValidation, got %v", tc.username, tc.email, err)
		}
	}
}

func TestAuthService_SignUp_DuplicateUser(t *testing.T) {
	users := &mockUsers{
		CreateFn: func(username, email, hash string) (int, error) {
			return 0, repository.ErrDuplicate
		},
	}
	svc := newTestAuthService(users, newMockSessions())

	_, err := svc.SignUp(context.Background(), "alice", "alice@example.com", "s3cr3tpass")
	if !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

// --- SignIn / Authenticate / SignOut tests ---

func testUser(t *testing.T, id int, username, password string) *models.User {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	return &models.User{ID: id, Username: username, PasswordHash: hash}
}

func TestAuthService_SignIn_UniformFailure(t *testing.T) {
	user := testUser(t, 7, "diana", "letmein-please")
	users := &mockUsers{
		GetByUsernameFn: func(username string) (*models.User, error) {
			if username == "diana" {
				return user, nil
			}
			return nil, nil
		},
	}
	svc := newTestAuthService(users, newMockSessions())

	// Unknown username and wrong password must be indistinguishable.
	_, errUnknown := svc.SignIn(context.Background(), "nobody", "letmein-please")
	_, errWrongPw := svc.SignIn(context.Background(), "diana", "wrong-password")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	user := testUser(t, 7, "diana", "letmein-please")
	users := &mockUsers{
		GetByUsernameFn: func(username string) (*models.User, error) { return user, nil },
	}
	sessions := newMockSessions()
	svc := newTestAuthService(users, sessions)
	ctx := context.Background()

	token, err := svc.SignIn(ctx, "diana", "letmein-please")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if len(sessions.store) != 1 {
		t.Fatalf("expected 1 stored session, got %d", len(sessions.store))
	}

	userID, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if userID != 7 {
		t.Fatalf("expected userID 7, got %d", userID)
	}

	if err := svc.SignOut(ctx, token); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if len(sessions.store) != 0 {
		t.Fatalf("expected session removed, got %d", len(sessions.store))
	}

	// The token is dead once its session is gone.
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after sign-out, got %v", err)
	}
}

func TestAuthService_Authenticate_BadTokens(t *testing.T) {
	svc := newTestAuthService(&mockUsers{}, newMockSessions())
	ctx := context.Background()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("Authenticate(%q): expected ErrUnauthenticated, got %v", token, err)
		}
	}
}

func TestAuthService_Authenticate_ForeignSigningKey(t *testing.T) {
	users := &mockUsers{
		GetByUsernameFn: func(username string) (*models.User, error) {
			return testUser(t, 7, "diana", "letmein-please"), nil
		},
	}
	sessions := newMockSessions()
	other := NewAuthService(users, sessions, AuthConfig{SigningKey: "other-key", TokenTTL: time.Hour})

	token, err := other.SignIn(context.Background(), "diana", "letmein-please")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	svc := newTestAuthService(&mockUsers{}, sessions)
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for foreign signature, got %v", err)
	}
}

func TestAuthService_DeleteAccount(t *testing.T) {
	users := &mockUsers{}
	svc := newTestAuthService(users, newMockSessions())

	if err := svc.DeleteAccount(context.Background(), 7); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if len(users.deleteCalls) != 1 || users.deleteCalls[0] != 7 {
		t.Fatalf("expected Delete(7), got %v", users.deleteCalls)
	}
}
