package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/phylotree/pkg/cache"
	"github.com/matzehuels/phylotree/pkg/config"
	"github.com/matzehuels/phylotree/pkg/pipeline"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return New(io.Discard, LogInfo)
}

func TestRootCommandSubcommands(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()

	want := map[string]bool{
		"build":      false,
		"plot":       false,
		"cache":      false,
		"serve":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestCacheDir(t *testing.T) {
	c := newTestCLI(t)

	if got, want := c.cacheDir(), config.DefaultCacheDir(); got != want {
		t.Errorf("cacheDir() = %q, want default %q", got, want)
	}

	c.Config.Cache.Dir = "/tmp/custom-cache"
	if got := c.cacheDir(); got != "/tmp/custom-cache" {
		t.Errorf("cacheDir() = %q, want config override", got)
	}
}

func TestNewCacheDisabled(t *testing.T) {
	c := newTestCLI(t)
	ctx := context.Background()

	if _, ok := c.newCache(ctx, true).(*cache.NullCache); !ok {
		t.Error("noCache should select the null cache")
	}

	c.Config.Cache.Backend = "off"
	if _, ok := c.newCache(ctx, false).(*cache.NullCache); !ok {
		t.Error(`backend "off" should select the null cache`)
	}
}

func TestSplitFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{" svg , png ,", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		if got := splitFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tree.nwk", "tree"},
		{"dir/tree.nwk", "dir/tree"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		if got := basePrefix(tt.in); got != tt.want {
			t.Errorf("basePrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteArtifactsSingleHonorsOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "figure.svg")

	result := &pipeline.Result{
		Artifacts: map[string]map[string][]byte{
			"circular": {"svg": []byte("<svg/>")},
		},
	}

	paths, err := writeArtifacts(result, out, "ignored")
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Fatalf("paths = %v, want [%s]", paths, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output file not written: %v", err)
	}
}

func TestWriteArtifactsMultipleUsePrefix(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "run")

	result := &pipeline.Result{
		Artifacts: map[string]map[string][]byte{
			"circular":    {"svg": []byte("a")},
			"rectangular": {"svg": []byte("b")},
		},
	}

	paths, err := writeArtifacts(result, prefix, "ignored")
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "run_circular.svg"),
		filepath.Join(dir, "run_rectangular.svg"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	for _, p := range want {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing artifact %s: %v", p, err)
		}
	}
}
