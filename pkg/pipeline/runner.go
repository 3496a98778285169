package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yash2003ruhela/mind-map/pkg/cache"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
)

// Runner encapsulates rendering with caching and logging.
// Both CLI and API use it so that artifacts are produced the same way.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// uses log.Default().
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute renders every requested format of v, serving unchanged
// artifacts from the cache.
func (r *Runner) Execute(ctx context.Context, v editor.View, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	result := &Result{
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		Stats:     Stats{NodeCount: len(v.Nodes), EdgeCount: len(v.Edges)},
	}

	content, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("hash view: %w", err)
	}
	keyOpts := cache.ArtifactKeyOpts{Scale: opts.Scale, FontSize: opts.FontSize, ShowIDs: opts.ShowIDs}

	var missing []string
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, cache.ArtifactKey(content, format, keyOpts))
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if hit {
			result.Artifacts[format] = data
			result.CacheHits = append(result.CacheHits, format)
			continue
		}
		missing = append(missing, format)
	}

	if len(missing) > 0 {
		renderOpts := opts
		renderOpts.Formats = missing
		artifacts, err := Render(ctx, v, renderOpts)
		if err != nil {
			return nil, err
		}
		for format, data := range artifacts {
			result.Artifacts[format] = data
			if err := r.Cache.Set(ctx, cache.ArtifactKey(content, format, keyOpts), data, r.TTL); err != nil {
				r.Logger.Warn("cache write failed", "format", format, "err", err)
			}
		}
	}

	result.Stats.RenderTime = time.Since(start)
	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", result.CacheHits,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// WriteArtifacts writes each artifact to base plus the format's extension
// and returns the paths in format order.
func WriteArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + Extension(format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
