package configuration

import (
	"os"
	"testing"
)

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	d := DatabaseOptions{
		Name:     "jinhak_test",
		Host:     "db.local",
		Port:     "5433",
		User:     "app",
		Password: "secret",
	}
	want := "host=db.local port=5433 user=app dbname=jinhak_test password=secret sslmode=disable"
	if got := d.ConnectionString(); got != want {
		t.Fatalf("unexpected connection string: %q", got)
	}
}

func TestIngestOptions_Validate(t *testing.T) {
	ok := IngestOptions{EntityBatchSize: 200, AssociationBatchSize: 500}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := IngestOptions{EntityBatchSize: 0, AssociationBatchSize: 500}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero entity batch size")
	}

	bad = IngestOptions{EntityBatchSize: 200, AssociationBatchSize: -1}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative association batch size")
	}
}

func TestLoadEnv_NoFiles(t *testing.T) {
	tmp := t.TempDir()

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 env files loaded, got %d", n)
	}
}

func TestLoadEnv_LoadsExistingFile(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(tmp+"/.env", []byte("JINHAK_TEST_ENV_LOAD=ok\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("JINHAK_TEST_ENV_LOAD")
	t.Cleanup(func() { _ = os.Unsetenv("JINHAK_TEST_ENV_LOAD") })

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("JINHAK_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded, got %q", got)
	}
}
