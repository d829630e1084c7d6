package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"arbor/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCredentials(t *testing.T) {
	cfg := config.Default()
	result := CheckCredentials(&cfg)
	if result.Passed {
		t.Fatal("expected failure without credentials")
	}

	cfg.Pcloud.Username = "user@example.com"
	cfg.Pcloud.Password = "secret"
	result = CheckCredentials(&cfg)
	if !result.Passed {
		t.Fatalf("expected pass with credentials, got: %s", result.Detail)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	original := statfs
	t.Cleanup(func() { statfs = original })

	statfs = func(string) (uint64, uint64, error) {
		return 1 << 40, 1 << 30, nil
	}
	result := CheckFreeSpace("scratch", "/tmp")
	if !result.Passed {
		t.Fatalf("expected pass with 1 GiB free, got: %s", result.Detail)
	}

	statfs = func(string) (uint64, uint64, error) {
		return 1 << 40, 1 << 20, nil
	}
	result = CheckFreeSpace("scratch", "/tmp")
	if result.Passed {
		t.Fatal("expected failure with 1 MiB free")
	}
}

func TestCheckRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/userinfo":
			if r.URL.Query().Get("password") != "secret" {
				_, _ = w.Write([]byte(`{"result": 2000, "error": "Log in failed."}`))
				return
			}
			_, _ = w.Write([]byte(`{"result": 0, "auth": "token", "quota": 100, "usedquota": 25}`))
		case r.URL.Path == "/logout":
			_, _ = w.Write([]byte(`{"result": 0, "auth_deleted": true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Pcloud.BaseURL = srv.URL
	cfg.Pcloud.Username = "user@example.com"
	cfg.Pcloud.Password = "secret"

	result := CheckRemote(context.Background(), &cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	cfg.Pcloud.Password = "wrong"
	result = CheckRemote(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("expected failure with bad credentials")
	}
}
