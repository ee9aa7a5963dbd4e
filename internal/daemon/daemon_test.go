package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/knock/internal/api"
	"github.com/matheus3301/knock/internal/config"
	"github.com/matheus3301/knock/internal/lock"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func testParams(t *testing.T, backend string) Params {
	t.Helper()
	// Use a short path to avoid the 104-char Unix socket limit on macOS.
	tmpDir, err := os.MkdirTemp("/tmp", "knock-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	cfg := config.Default()
	cfg.Storage.Backend = backend
	cfg.Scheduler.PollIntervalMS = 10
	return Params{
		Profile:    "test",
		Config:     cfg,
		Dir:        tmpDir,
		SocketPath: filepath.Join(tmpDir, "d.sock"),
		Logger:     zap.NewNop(),
	}
}

func startDaemon(t *testing.T, p Params) *fxtest.App {
	t.Helper()
	app := fxtest.New(t, Module(p), fx.NopLogger)
	app.RequireStart()
	return app
}

func dial(t *testing.T, p Params) *api.Client {
	t.Helper()
	client, err := api.Dial(p.SocketPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDaemonLifecycle(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendDiskv} {
		t.Run(backend, func(t *testing.T) {
			p := testParams(t, backend)
			app := startDaemon(t, p)
			client := dial(t, p)
			ctx := context.Background()

			st, err := client.Status(ctx)
			if err != nil {
				t.Fatalf("Status error = %v", err)
			}
			if st.Profile != "test" || st.Reveal != "HIDDEN" {
				t.Errorf("Status = %+v", st)
			}

			c, err := client.AddContact(ctx, api.AddContactRequest{Name: "Alice", Phone: "+33612345678", AvatarID: "cat"})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := client.ScheduleMessage(ctx, api.ScheduleRequest{
				ContactID: c.ID.String(),
				Content:   "later",
				DeliverAt: time.Now().Add(time.Hour),
				AvatarID:  "cat",
			}); err != nil {
				t.Fatal(err)
			}
			app.RequireStop()

			if _, err := os.Stat(p.SocketPath); !os.IsNotExist(err) {
				t.Error("socket not removed on stop")
			}

			// A restarted daemon reloads the data and re-arms the trigger.
			app = startDaemon(t, p)
			defer app.RequireStop()
			client = dial(t, p)
			st, err = client.Status(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if st.Contacts != 1 || st.Scheduled != 1 || st.PendingTriggers != 1 {
				t.Errorf("Status after restart = %+v", st)
			}
		})
	}
}

func TestSecondDaemonRefused(t *testing.T) {
	p := testParams(t, config.BackendSQLite)
	app := startDaemon(t, p)
	defer app.RequireStop()

	second := p
	second.SocketPath = filepath.Join(p.Dir, "d2.sock")
	app2 := fx.New(Module(second), fx.NopLogger)
	err := app2.Err()
	var held *lock.LockHeldError
	if !errors.As(err, &held) {
		t.Fatalf("err = %v, want LockHeldError", err)
	}
}

func TestProbe(t *testing.T) {
	p := testParams(t, config.BackendDiskv)
	if Probe(p.SocketPath) {
		t.Fatal("Probe() = true before the daemon started")
	}
	app := startDaemon(t, p)
	defer app.RequireStop()
	if !WaitReady(p.SocketPath, 5*time.Second) {
		t.Error("WaitReady() = false with the daemon running")
	}
}
