package config

import (
	"context"

	"github.com/matzehuels/figurine/pkg/cache"
	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/pipeline"
	"github.com/matzehuels/figurine/pkg/store"
	"github.com/matzehuels/figurine/pkg/theme"
)

// NewTheme builds the render theme, starting from the site palette.
func (c *Config) NewTheme() *theme.Theme {
	tc := c.Theme
	if tc.FontFamily == "" && len(tc.AccentsLight) == 0 && len(tc.AccentsDark) == 0 {
		return theme.Default()
	}
	light, dark := theme.LightRoles(), theme.DarkRoles()
	copy(light.Accents[:], tc.AccentsLight)
	copy(dark.Accents[:], tc.AccentsDark)
	return theme.New(tc.FontFamily, light, dark)
}

// NewCache opens the configured cache. noCache forces a NullCache.
func (c *Config) NewCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.Redis)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open redis cache")
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(c.Cache.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open file cache")
		}
		return fc, nil
	}
}

// NewKeyer returns the cache keyer, scoped when cache.scope is set.
func (c *Config) NewKeyer() cache.Keyer {
	if c.Cache.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Scope+":")
}

// NewStore opens the configured figure store.
func (c *Config) NewStore(ctx context.Context) (store.Store, error) {
	if c.Store.Backend == BackendS3 {
		return store.NewS3Store(ctx, c.Store.S3)
	}
	return store.NewFileStore(c.Store.Dir, c.Store.BaseURL)
}

// NewIndex opens the configured figure index.
func (c *Config) NewIndex(ctx context.Context) (store.Index, error) {
	switch c.Index.Backend {
	case BackendMemory:
		return store.NewMemoryIndex(), nil
	case BackendMongo:
		return store.NewMongoIndex(ctx, c.Index.Mongo)
	}
	return store.NopIndex{}, nil
}

// ExpandOptions returns the expansion defaults as pipeline options. Callers
// set Markdown and Slug.
func (c *Config) ExpandOptions() pipeline.Options {
	return pipeline.Options{
		Mode:        c.Expand.Mode,
		BaseURL:     c.Expand.BaseURL,
		Concurrency: c.Expand.Concurrency,
		Caption:     c.Theme.Caption,
		Theme:       c.NewTheme(),
	}
}
