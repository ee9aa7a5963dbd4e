package daemon

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/matheus3301/knock/internal/api"
)

// Probe checks if a daemon is running and responsive on the socket.
func Probe(socketPath string) bool {
	c, err := api.Dial(socketPath)
	if err != nil {
		return false
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = c.Status(ctx)
	return err == nil
}

// Launch starts knockd for profile in the background. The binary next to
// the running executable is preferred over $PATH.
func Launch(profile string) error {
	executable, err := os.Executable()
	if err != nil {
		return err
	}
	knockd := filepath.Join(filepath.Dir(executable), "knockd")
	if _, err := os.Stat(knockd); err != nil {
		knockd = "knockd"
	}

	cmd := exec.Command(knockd, "--profile", profile)
	// Inherit stderr so daemon startup errors are visible.
	cmd.Stderr = os.Stderr
	return cmd.Start()
}

// WaitReady polls the daemon with a real gRPC call (not just socket connect).
func WaitReady(socketPath string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if Probe(socketPath) {
			return true
		}
		time.Sleep(300 * time.Millisecond)
	}
	return false
}
