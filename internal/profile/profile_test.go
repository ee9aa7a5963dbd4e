package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matheus3301/knock/internal/config"
)

func TestPaths(t *testing.T) {
	t.Setenv("KNOCK_HOME", "/tmp/knock-home")

	tests := []struct {
		got, want string
	}{
		{Dir("main"), "/tmp/knock-home/profiles/main"},
		{SocketPath("work"), "/tmp/knock-home/profiles/work/daemon.sock"},
		{DBPath("work"), "/tmp/knock-home/profiles/work/knock.db"},
		{BlobDir("work"), "/tmp/knock-home/profiles/work/blobs"},
		{LogPath("work"), "/tmp/knock-home/profiles/work/logs/knockd.log"},
		{ConfigPath(), "/tmp/knock-home/config.toml"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	t.Setenv("KNOCK_HOME", t.TempDir())

	if err := EnsureDir("test"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(LogDir("test"))
	if err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("log dir permission = %o, want 0700", perm)
	}
}

func TestResolve(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KNOCK_HOME", home)

	if got := Resolve(""); got != DefaultName {
		t.Errorf("Resolve() without config = %q, want %q", got, DefaultName)
	}

	cfg := config.Default()
	cfg.DefaultProfile = "perso"
	if err := config.Save(filepath.Join(home, "config.toml"), cfg); err != nil {
		t.Fatal(err)
	}
	if got := Resolve(""); got != "perso" {
		t.Errorf("Resolve() = %q, want perso", got)
	}
	if got := Resolve("work"); got != "work" {
		t.Errorf("Resolve(work) = %q, want work", got)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "main", false},
		{"valid with hyphen", "my-profile", false},
		{"valid with underscore", "my_profile", false},
		{"empty", "", true},
		{"uppercase", "Main", true},
		{"dot", "my.profile", true},
		{"slash", "my/profile", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
