package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if pid := Holder(data); pid != os.Getpid() {
		t.Errorf("Holder() = %d, want %d", pid, os.Getpid())
	}

	if err := l.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Error("lock file left behind after Release")
	}
}

func TestDoubleAcquireFails(t *testing.T) {
	dir := t.TempDir()

	l1, err := Acquire(dir)
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	defer func() { _ = l1.Release() }()

	_, err = Acquire(dir)
	var lockErr *LockHeldError
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected LockHeldError, got %T: %v", err, err)
	}
	if lockErr.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", lockErr.PID, os.Getpid())
	}
}

func TestReleaseNilAndTwice(t *testing.T) {
	var nilLock *Lock
	if err := nilLock.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}

	l, err := Acquire(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("first Release() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
}

func TestHolder(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"pid=42\ntime=2026-01-01T00:00:00Z\n", 42},
		{"time=x\npid=7", 7},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := Holder([]byte(tt.in)); got != tt.want {
			t.Errorf("Holder(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
