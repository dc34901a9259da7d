package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"budget_tracker/internal/models"
	"budget_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Hand-written mocks over the service interfaces. Only the funcs a test sets
// are expected to run; the rest fail loudly.

type mockAuth struct {
	SignUpFn        func(username, email, password string) (int, error)
	SignInFn        func(username, password string) (string, error)
	AuthenticateFn  func(token string) (int, error)
	SignOutFn       func(token string) error
	GetUserFn       func(userID int) (*models.User, error)
	DeleteAccountFn func(userID int) error
}

func (m *mockAuth) SignUp(_ context.Context, username, email, password string) (int, error) {
	return m.SignUpFn(username, email, password)
}

func (m *mockAuth) SignIn(_ context.Context, username, password string) (string, error) {
	return m.SignInFn(username, password)
}

func (m *mockAuth) Authenticate(_ context.Context, token string) (int, error) {
	return m.AuthenticateFn(token)
}

func (m *mockAuth) SignOut(_ context.Context, token string) error {
	return m.SignOutFn(token)
}

func (m *mockAuth) GetUser(_ context.Context, userID int) (*models.User, error) {
	return m.GetUserFn(userID)
}

func (m *mockAuth) DeleteAccount(_ context.Context, userID int) error {
	return m.DeleteAccountFn(userID)
}

type mockCategories struct {
	ListFn   func(userID int) ([]models.Category, error)
	CreateFn func(userID int, name, ctype string) (int, error)
	UpdateFn func(userID, id int, name, ctype string) error
	DeleteFn func(userID, id int) error
}

func (m *mockCategories) List(_ context.Context, userID int) ([]models.Category, error) {
	return m.ListFn(userID)
}

func (m *mockCategories) Create(_ context.Context, userID int, name, ctype string) (int, error) {
	return m.CreateFn(userID, name, ctype)
}

func (m *mockCategories) Update(_ context.Context, userID, id int, name, ctype string) error {
	return m.UpdateFn(userID, id, name, ctype)
}

func (m *mockCategories) Delete(_ context.Context, userID, id int) error {
	return m.DeleteFn(userID, id)
}

type mockTransactions struct {
	ListFn   func(userID int, f service.TxFilter) ([]models.Transaction, models.Totals, error)
	CreateFn func(userID int, p service.TxParams) (int, error)
	UpdateFn func(userID, id int, p service.TxParams) error
	DeleteFn func(userID, id int) error
}

func (m *mockTransactions) List(_ context.Context, userID int, f service.TxFilter) ([]models.Transaction, models.Totals, error) {
	return m.ListFn(userID, f)
}

func (m *mockTransactions) Create(_ context.Context, userID int, p service.TxParams) (int, error) {
	return m.CreateFn(userID, p)
}

func (m *mockTransactions) Update(_ context.Context, userID, id int, p service.TxParams) error {
	return m.UpdateFn(userID, id, p)
}

func (m *mockTransactions) Delete(_ context.Context, userID, id int) error {
	return m.DeleteFn(userID, id)
}

type mockFeed struct {
	SubscribeFn func(userID int) (<-chan models.FeedEvent, func())
}

func (m *mockFeed) Subscribe(userID int) (<-chan models.FeedEvent, func()) {
	if m.SubscribeFn == nil {
		ch := make(chan models.FeedEvent)
		return ch, func() { close(ch) }
	}
	return m.SubscribeFn(userID)
}

// authAs resolves every token to the given user ID.
func authAs(userID int) *mockAuth {
	return &mockAuth{
		AuthenticateFn: func(token string) (int, error) { return userID, nil },
	}
}

// newTestRouter builds a full router over the mocked services.
func newTestRouter(t *testing.T, svc *service.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if svc.Feed == nil {
		svc.Feed = &mockFeed{}
	}
	h := NewHandler(svc, nil)
	return h.InitRoutes()
}

func doRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
