package main

import (
	"bytes"
	"context"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sheikhrachel/go-gol-api/store"
	"github.com/sheikhrachel/go-gol-api/utils"
)

func TestOpenStoreMemoryByDefault(t *testing.T) {
	st, closeStore, err := openStore(utils.DefaultConfig())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer closeStore()

	if ids, err := st.ListIDs(context.Background()); err != nil || len(ids) != 0 {
		t.Fatalf("list = %v, %v; want empty", ids, err)
	}
}

func TestOpenStoreSQLite(t *testing.T) {
	config := utils.DefaultConfig()
	config.StorePath = filepath.Join(t.TempDir(), "boards.db")

	st, closeStore, err := openStore(config)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := st.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if err := closeStore(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	if err := l.Close(); err != nil {
		t.Fatalf("close listener: %v", err)
	}
	return addr
}

func TestRunServesUntilCanceled(t *testing.T) {
	config := utils.DefaultConfig()
	config.Addr = freeAddr(t)
	config.SweepInterval = utils.Duration{Duration: time.Millisecond}

	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, config, log.New(&logs, "", 0)) }()

	url := "http://" + config.Addr + "/api/gameoflife/boards/ids"
	var (
		resp *http.Response
		err  error
	)
	for range 200 {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestStoreKind(t *testing.T) {
	config := utils.DefaultConfig()
	if storeKind(config) != "memory" {
		t.Fatalf("kind = %q, want memory", storeKind(config))
	}
	config.StorePath = "/tmp/x.db"
	if !strings.HasPrefix(storeKind(config), "sqlite:") {
		t.Fatalf("kind = %q, want sqlite prefix", storeKind(config))
	}
}

func TestNewServiceHonorsZeroDensity(t *testing.T) {
	config := utils.DefaultConfig()
	config.RandomDensity = 0
	config.Seed = 9
	if err := config.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	svc := newService(store.NewMemoryStore(0), config, log.New(&bytes.Buffer{}, "", 0))
	b, err := svc.CreateRandomBoard(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n := b.LiveCells(); n != 0 {
		t.Fatalf("random_density 0 produced %d live cells, want 0", n)
	}
}
