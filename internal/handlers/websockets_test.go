package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"budget_tracker/internal/models"
	"budget_tracker/internal/service"

	"github.com/gorilla/websocket"
)

var errDiskOnFire = errors.New("disk unavailable")

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v (resp: %+v)", err, resp)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return env
}

func TestWS_RejectsAnonymous(t *testing.T) {
	router := newTestRouter(t, &service.Service{Authorization: &mockAuth{
		AuthenticateFn: func(token string) (int, error) {
			t.Fatal("Authenticate should not run without a token")
			return 0, nil
		},
	}})
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected the upgrade to be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func TestWS_SeedsTotalsThenStreamsEvents(t *testing.T) {
	feed := service.NewTransactionFeed()
	totals := models.Totals{IncomeCents: 1000, NetCents: 1000}
	totals.Format()

	router := newTestRouter(t, &service.Service{
		Authorization: authAs(7),
		Transactions: &mockTransactions{
			ListFn: func(userID int, f service.TxFilter) ([]models.Transaction, models.Totals, error) {
				return nil, totals, nil
			},
		},
		Feed: feed,
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn := dialWS(t, srv, "tok-1")

	// First frame seeds the dashboard with current totals.
	env := readEnvelope(t, conn)
	if env.Type != "totals" {
		t.Fatalf("expected a totals frame first, got %q", env.Type)
	}
	raw, _ := json.Marshal(env.Data)
	if !strings.Contains(string(raw), `"net":"10.00"`) {
		t.Fatalf("expected formatted totals, got %s", raw)
	}

	// The subscription precedes the totals frame, so a publish after it is
	// guaranteed to be delivered.
	tr := models.Transaction{ID: 11, UserID: 7, CategoryName: "groceries", Amount: "-42.50"}
	feed.Publish(7, models.FeedEvent{Type: models.FeedCreated, Transaction: tr})

	got := readEnvelope(t, conn)
	if got.Type != models.FeedCreated {
		t.Fatalf("expected %q, got %q", models.FeedCreated, got.Type)
	}
	raw, _ = json.Marshal(got.Data)
	if !strings.Contains(string(raw), `"id":11`) {
		t.Fatalf("expected the transaction in the event, got %s", raw)
	}
}

func TestWS_StorageFaultSendsErrorFrame(t *testing.T) {
	router := newTestRouter(t, &service.Service{
		Authorization: authAs(7),
		Transactions: &mockTransactions{
			ListFn: func(userID int, f service.TxFilter) ([]models.Transaction, models.Totals, error) {
				return nil, models.Totals{}, errDiskOnFire
			},
		},
		Feed: service.NewTransactionFeed(),
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn := dialWS(t, srv, "tok-1")

	env := readEnvelope(t, conn)
	if env.Type != "error" {
		t.Fatalf("expected an error frame, got %q", env.Type)
	}
	if env.Error != errStorage {
		t.Fatalf("expected the generic storage message, got %q", env.Error)
	}
	if strings.Contains(env.Error, "disk") {
		t.Fatalf("storage detail leaked: %q", env.Error)
	}
}
