package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/deployview/pkg/cache"
)

func TestCachePath(t *testing.T) {
	env := newTestEnv(t)

	output, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want := filepath.Join(env.base, "cache", "deployview")
	if strings.TrimSpace(output) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(output), want)
	}
}

func TestCacheClear(t *testing.T) {
	env := newTestEnv(t)
	dir := filepath.Join(env.base, "cache", "deployview")

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	_ = fc.Set(ctx, "a", []byte("1"), time.Hour)
	_ = fc.Set(ctx, "b", []byte("2"), time.Hour)

	output, err := env.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(output, "Cleared 2 cached entries") {
		t.Errorf("output = %q", output)
	}

	output, _ = env.run(t, "cache", "clear")
	if !strings.Contains(output, "Cache is empty") {
		t.Errorf("second clear output = %q", output)
	}
}

func TestCacheClearDisabled(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("DEPLOYVIEW_CACHE_BACKEND", "none")

	output, err := env.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(output, "disabled") {
		t.Errorf("output = %q", output)
	}
}

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"file", "/tmp/c"},
		{"", "/tmp/c"},
		{"redis", "redis://localhost:6379"},
		{"none", "(disabled)"},
	}
	for _, tt := range tests {
		if got := cacheLocation(tt.backend, "/tmp/c", "redis://localhost:6379"); got != tt.want {
			t.Errorf("cacheLocation(%q) = %q, want %q", tt.backend, got, tt.want)
		}
	}
}
