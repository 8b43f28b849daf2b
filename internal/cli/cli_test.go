package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"deerhacks-service/internal/config"
	"deerhacks-service/internal/schedule"
)

func TestRootCommandWiring(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"start", "migrate"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Fatalf("expected %s subcommand, got %v (%v)", name, sub, err)
		}
	}
	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Fatalf("expected --verbose flag")
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"8080\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	err := runMigrations(context.Background(), path)
	if err == nil || !strings.Contains(err.Error(), "postgres url not configured") {
		t.Fatalf("expected missing postgres error, got %v", err)
	}
}

func TestSampleEventsAreValid(t *testing.T) {
	seen := map[int64]bool{}
	for _, ev := range sampleEvents() {
		if seen[ev.ID] {
			t.Fatalf("duplicate sample id %d", ev.ID)
		}
		seen[ev.ID] = true
		if err := schedule.Validate(ev); err != nil {
			t.Fatalf("sample %d: %v", ev.ID, err)
		}
	}
}

func TestNewSignerFromConfig(t *testing.T) {
	var cfg config.Config
	cfg.Points.TokenSecret = "shared-secret"
	cfg.Points.TokenTTL = "45s"

	a, err := newSigner(cfg)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	b, _ := newSigner(cfg)
	if a.TTL() != 45*time.Second {
		t.Fatalf("expected 45s ttl, got %v", a.TTL())
	}
	now := time.Date(2025, time.February, 15, 14, 0, 0, 0, time.UTC)
	if err := b.Verify(a.Issue(13, now).Token, 13, now); err != nil {
		t.Fatalf("expected instances sharing a secret to agree: %v", err)
	}

	cfg.Points.TokenSecret = ""
	random, err := newSigner(cfg)
	if err != nil {
		t.Fatalf("random signer: %v", err)
	}
	if err := a.Verify(random.Issue(13, now).Token, 13, now); err == nil {
		t.Fatalf("expected a generated secret to differ from the configured one")
	}
}
