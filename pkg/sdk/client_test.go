package flatdb

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	healthuc "github.com/kailas-cloud/flatdb/internal/usecase/health"
)

func TestNew_NoStorage(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no storage configured")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_RedisWithoutAddr(t *testing.T) {
	cfg := &clientConfig{driver: driverRedis}
	if _, err := createStore(cfg); err == nil {
		t.Fatal("expected error for redis without address")
	}
}

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, WithMemory(), WithCollection("people"), WithPageSize(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	users := client.Users()
	for _, name := range []string{"Ivan", "Maria", "Peter"} {
		if _, err := users.Create(ctx, Record{"name": name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	u, err := users.Get(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u["name"] != "Maria" {
		t.Errorf("name = %v, want Maria", u["name"])
	}

	p, err := users.Paginate(ctx, 0, 0)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(p.Data) != 2 || p.Pagination.Total != 3 || p.Pagination.TotalPages != 2 {
		t.Errorf("page = %+v", p)
	}

	n, err := client.Records("people").Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("count = %d, %v, want 3", n, err)
	}

	names, err := client.Collections(ctx)
	if err != nil {
		t.Fatalf("collections: %v", err)
	}
	if len(names) != 1 || names[0] != "people" {
		t.Errorf("collections = %v, want [people]", names)
	}

	if err := client.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
	if h := client.Health(ctx); h.Status != "ok" || h.Checks["collection:people"] != "ok" {
		t.Errorf("health = %+v", h)
	}
}

func TestNew_DataDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	client, err := New(ctx, WithDataDir(dir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if _, err := client.Users().Create(ctx, Record{"name": "Ivan"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatalf("read users.json: %v", err)
	}
	if !strings.Contains(string(data), `"name": "Ivan"`) {
		t.Errorf("users.json = %s", data)
	}
}

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flatdb.sqlite")

	client, err := New(ctx, WithSQLite(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orders := client.Records("orders")
	if _, err := orders.InsertOne(ctx, Record{"status": "new"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	client.Close()

	reopened, err := New(ctx, WithSQLite(path))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Records("orders").FindOne(ctx, Query{"status": "new"})
	if err != nil {
		t.Fatalf("find after reopen: %v", err)
	}
	if id, _ := got.ID(); id != 1 {
		t.Errorf("id = %v, want 1", got["id"])
	}
}

func TestClient_Health_Degraded(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			"database":         healthuc.CheckOK,
			"collection:users": healthuc.CheckError,
		},
	}}}

	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("status = %q, want degraded", h.Status)
	}
	if h.Checks["collection:users"] != "error" {
		t.Errorf("checks = %v", h.Checks)
	}
}

func TestClient_Collections_Error(t *testing.T) {
	c := &Client{recordSvc: &mockRecordUC{
		collectionsFn: func(context.Context) ([]string, error) { return nil, ErrStorage },
	}}

	_, err := c.Collections(context.Background())
	if !errors.Is(err, ErrStorage) || !strings.HasPrefix(err.Error(), "list collections: ") {
		t.Errorf("unexpected error: %v", err)
	}
}

// --- observer ---

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("test", "users", time.Now(), nil) // must not panic
}

func TestObserver_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	o, err := newObserver(logger, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.observe("records.find", "users", time.Now(), nil)
	o.observe("users.get", "users", time.Now(), ErrUserNotFound)
	o.observe("records.insert_one", "users", time.Now(), errors.New("disk full"))

	out := buf.String()
	if strings.Count(out, "operation completed") != 2 {
		t.Errorf("expected two debug lines, got:\n%s", out)
	}
	if !strings.Contains(out, "status=not_found") {
		t.Errorf("missing not_found status:\n%s", out)
	}
	if !strings.Contains(out, "operation failed") || !strings.Contains(out, "disk full") {
		t.Errorf("missing failure line:\n%s", out)
	}
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()

	o, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.observe("users.get", "users", time.Now(), nil)
	o.observe("users.get", "users", time.Now(), ErrUserNotFound)
	o.observe("users.get", "users", time.Now(), errors.New("boom"))

	for _, status := range []string{"ok", "not_found", "error"} {
		got := testutil.ToFloat64(o.metrics.operations.WithLabelValues("users.get", "users", status))
		if got != 1 {
			t.Errorf("%s count = %v, want 1", status, got)
		}
	}
	if n := testutil.CollectAndCount(o.metrics.duration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	first.observe("ping", "", time.Now(), nil)
	second.observe("ping", "", time.Now(), nil)

	got := testutil.ToFloat64(second.metrics.operations.WithLabelValues("ping", "", "ok"))
	if got != 2 {
		t.Errorf("shared counter = %v, want 2", got)
	}
}

func TestNew_WithPrometheus(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	client, err := New(ctx, WithMemory(), WithPrometheus(reg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if _, err := client.Users().Get(ctx, 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	got := testutil.ToFloat64(client.obs.metrics.operations.WithLabelValues("users.get", "users", "not_found"))
	if got != 1 {
		t.Errorf("not_found count = %v, want 1", got)
	}
}
