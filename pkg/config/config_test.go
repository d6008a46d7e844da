package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/figurine/pkg/cache"
	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/pipeline"
	"github.com/matzehuels/figurine/pkg/store"
	"github.com/matzehuels/figurine/pkg/theme"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Expand.Mode != pipeline.ModeInline || c.Expand.Concurrency != pipeline.DefaultConcurrency {
		t.Errorf("expand = %+v", c.Expand)
	}
	if c.Cache.Backend != BackendFile || c.Store.Backend != BackendFile || c.Index.Backend != BackendNone {
		t.Errorf("backends = %s/%s/%s", c.Cache.Backend, c.Store.Backend, c.Index.Backend)
	}
	if c.Cache.Redis.Address != "localhost:6379" || c.Index.Mongo.Database != "figurine" {
		t.Error("backend sections should carry their defaults")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("TEST_BUCKET", "blog-assets")
	c, err := Parse([]byte(`
[theme]
caption = "Increasing platform maturity"
accents_light = ["#000000"]

[expand]
mode = "link"
concurrency = 8

[store]
backend = "s3"
[store.s3]
bucket = "${TEST_BUCKET}"
prefix = "site"

[cache]
backend = "redis"
[cache.redis]
address = "redis:6379"
read_timeout = "750ms"

[server]
addr = ":9090"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Expand.Mode != pipeline.ModeLink || c.Expand.Concurrency != 8 {
		t.Errorf("expand = %+v", c.Expand)
	}
	if c.Store.S3.Bucket != "blog-assets" || c.Store.S3.Prefix != "site" {
		t.Errorf("s3 = %+v", c.Store.S3)
	}
	if c.Cache.Redis.Address != "redis:6379" || c.Cache.Redis.ReadTimeout != 750*time.Millisecond {
		t.Errorf("redis = %+v", c.Cache.Redis)
	}
	if c.Cache.Redis.KeyPrefix != "figurine:" {
		t.Error("unset redis fields should default")
	}
	if c.Server.Addr != ":9090" || c.Server.ReadTimeout != 15*time.Second {
		t.Errorf("server = %+v", c.Server)
	}

	opts := c.ExpandOptions()
	if opts.Caption != "Increasing platform maturity" || opts.Mode != pipeline.ModeLink {
		t.Errorf("ExpandOptions() = %+v", opts)
	}
	if !strings.Contains(opts.Theme.StyleBlock(), "--c0: #000000;") {
		t.Error("accent override should reach the style block")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, doc string
	}{
		{"syntax", "[expand\nmode = 1"},
		{"unknown key", "[expand]\nmodes = \"link\""},
		{"bad mode", "[expand]\nmode = \"embed\""},
		{"bad cache", "[cache]\nbackend = \"memcached\""},
		{"s3 without bucket", "[store]\nbackend = \"s3\""},
		{"bad index", "[index]\nbackend = \"postgres\""},
		{"bad base url", "[expand]\nbase_url = \"ftp://x\""},
		{"accent breaks style", "[theme]\naccents_light = [\"#fff;} svg{display:none\"]"},
		{"accent not a color", "[theme]\naccents_dark = [\"red\"]"},
		{"too many accents", "[theme]\naccents_dark = [\"1\",\"2\",\"3\",\"4\",\"5\",\"6\",\"7\",\"8\",\"9\"]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	if p, req := Path("/etc/figurine.toml"); p != "/etc/figurine.toml" || !req {
		t.Errorf("explicit = %q, %v", p, req)
	}
	if p, req := Path(""); p != filepath.Join("/xdg", "figurine", "config.toml") || req {
		t.Errorf("default = %q, %v", p, req)
	}
	t.Setenv(EnvPath, "/env.toml")
	if p, req := Path(""); p != "/env.toml" || !req {
		t.Errorf("env = %q, %v", p, req)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	// Missing default file yields defaults.
	c, err := Load("")
	if err != nil || c.Expand.Mode != pipeline.ModeInline {
		t.Fatalf("Load() = %+v, %v", c, err)
	}

	// Missing explicit file is an error.
	if _, err := Load(filepath.Join(dir, "nope.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit error = %v", err)
	}

	path := filepath.Join(dir, "figurine", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[expand]\nconcurrency = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load("")
	if err != nil || c.Expand.Concurrency != 2 {
		t.Errorf("Load() = %+v, %v", c, err)
	}
}

func TestNewTheme(t *testing.T) {
	if Default().NewTheme() != theme.Default() {
		t.Error("no overrides should reuse the default theme")
	}
	c := Default()
	c.Theme.FontFamily = "Georgia, serif"
	if got := c.NewTheme().FontFamily(); got != "Georgia, serif" {
		t.Errorf("FontFamily() = %q", got)
	}
}

func TestBuilders(t *testing.T) {
	ctx := context.Background()
	c := Default()
	c.Cache.Dir = t.TempDir()
	c.Store.Dir = t.TempDir()

	ch, err := c.NewCache(ctx, false)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if _, ok := ch.(*cache.FileCache); !ok {
		t.Errorf("NewCache() = %T, want *cache.FileCache", ch)
	}
	if ch, _ := c.NewCache(ctx, true); ch == nil {
		t.Error("noCache should return a NullCache")
	}

	st, err := c.NewStore(ctx)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, ok := st.(*store.FileStore); !ok {
		t.Errorf("NewStore() = %T", st)
	}

	c.Index.Backend = BackendMemory
	idx, err := c.NewIndex(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := idx.(*store.MemoryIndex); !ok {
		t.Errorf("NewIndex() = %T", idx)
	}

	c.Cache.Backend = BackendRedis
	c.Cache.Redis.Address = "127.0.0.1:1"
	c.Cache.Redis.DialTimeout = 100 * time.Millisecond
	if _, err := c.NewCache(ctx, false); !errors.Is(err, errors.ErrCodeCache) {
		t.Errorf("unreachable redis error = %v", err)
	}
}

func TestNewKeyer(t *testing.T) {
	c := Default()
	opts := cache.FigureKeyOpts{Theme: "site"}
	plain := c.NewKeyer().FigureKey("bar", "spec", opts)

	c.Cache.Scope = "eng"
	scoped := c.NewKeyer().FigureKey("bar", "spec", opts)
	if scoped != "eng:"+plain {
		t.Errorf("scoped key = %q, want %q", scoped, "eng:"+plain)
	}
}
