package service

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/duoledger/internal/auth"
	"github.com/mmynk/duoledger/internal/metrics"
	"github.com/mmynk/duoledger/internal/notify"
	"github.com/mmynk/duoledger/internal/storage/sqlite"
	"github.com/mmynk/duoledger/pkg/api"
	"github.com/mmynk/duoledger/pkg/api/apiconnect"
)

// recordingPublisher keeps every published event for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) kinds() []notify.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Kind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

type testEnv struct {
	auth     apiconnect.AuthServiceClient
	projects apiconnect.ProjectServiceClient
	ledger   apiconnect.LedgerServiceClient
	balance  apiconnect.BalanceServiceClient
	events   *recordingPublisher
	metrics  *metrics.Metrics
	store    *sqlite.SQLiteStore
}

// setupTestServer serves every service over a temp-file SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	env := &testEnv{events: &recordingPublisher{}, metrics: metrics.NewNop(), store: store}
	mux := http.NewServeMux()
	Register(mux, Deps{
		Store:     store,
		JWT:       auth.NewJWTManager("service-test-secret", time.Hour),
		Publisher: env.events,
		Metrics:   env.metrics,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.auth = apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	env.projects = apiconnect.NewProjectServiceClient(http.DefaultClient, server.URL)
	env.ledger = apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)
	env.balance = apiconnect.NewBalanceServiceClient(http.DefaultClient, server.URL)
	return env
}

// authed wraps msg in a request carrying the session token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

type session struct {
	userID string
	token  string
}

func (e *testEnv) register(t *testing.T, email string) session {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: email,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return session{userID: resp.Msg.User.ID, token: resp.Msg.Token}
}

// couple creates a two-person project: host creates it, guest is added.
func (e *testEnv) couple(t *testing.T, projectType string, rates map[string]float64) (string, session, session) {
	t.Helper()
	ctx := context.Background()
	host := e.register(t, "host@example.com")
	guest := e.register(t, "guest@example.com")

	created, err := e.projects.CreateProject(ctx, authed(host.token, &api.CreateProjectRequest{
		Name:  "daily",
		Type:  projectType,
		Rates: rates,
	}))
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	projectID := created.Msg.Project.ID

	if _, err := e.projects.AddMember(ctx, authed(host.token, &api.AddMemberRequest{
		ProjectID: projectID,
		Email:     "guest@example.com",
		Role:      "guest",
	})); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	return projectID, host, guest
}

func (e *testEnv) addTransaction(t *testing.T, token string, tx *api.Transaction) *api.Transaction {
	t.Helper()
	resp, err := e.ledger.CreateTransaction(context.Background(), authed(token, &api.CreateTransactionRequest{Transaction: tx}))
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	return resp.Msg.Transaction
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func assertAmount(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.001 {
		t.Errorf("%s: expected %.2f, got %.2f", name, want, got)
	}
}
