package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yash2003ruhela/mind-map/pkg/cache"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
	"github.com/yash2003ruhela/mind-map/pkg/observability"
	"github.com/yash2003ruhela/mind-map/pkg/snapshot"
)

func testView(t *testing.T) editor.View {
	t.Helper()
	s, err := editor.NewSession(editor.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	_, _ = s.AddNodeAt("a", 10, 10, "Root")
	_, _ = s.AddNodeAt("b", 300, 200, "Leaf")
	_, _ = s.Select("a")
	_, _ = s.Select("b")
	if _, err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	return s.View()
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
		check   func(t *testing.T, o Options)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, o Options) {
				if len(o.Formats) != 1 || o.Formats[0] != FormatPNG {
					t.Errorf("Formats = %v, want [png]", o.Formats)
				}
				if o.Scale != 1 || o.FontSize != 14 {
					t.Errorf("Scale, FontSize = %v, %v", o.Scale, o.FontSize)
				}
			},
		},
		{
			name: "dedupe",
			opts: Options{Formats: []string{"svg", "png", "svg"}},
			check: func(t *testing.T, o Options) {
				if strings.Join(o.Formats, ",") != "svg,png" {
					t.Errorf("Formats = %v", o.Formats)
				}
			},
		},
		{name: "unknown format", opts: Options{Formats: []string{"pdf"}}, wantErr: true},
		{name: "negative scale", opts: Options{Scale: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.opts
			err := o.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, o)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"map.png":      FormatPNG,
		"MAP.SVG":      FormatSVG,
		"out/map.dot":  FormatDOT,
		"map.gv.svg":   FormatGraphviz,
		"map.json":     FormatJSON,
		"map.pdf":      "",
		"no-extension": "",
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestRenderAllFormats(t *testing.T) {
	v := testView(t)
	artifacts, err := Render(context.Background(), v, Options{
		Formats: []string{FormatPNG, FormatSVG, FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if _, err := png.Decode(bytes.NewReader(artifacts[FormatPNG])); err != nil {
		t.Errorf("png artifact: %v", err)
	}
	if !bytes.Contains(artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact is not SVG")
	}
	if !bytes.HasPrefix(artifacts[FormatDOT], []byte("graph G {")) {
		t.Error("dot artifact is not DOT")
	}

	s, err := snapshot.JSON.Decode(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !s.Equal(SnapshotOf(v)) {
		t.Errorf("json artifact = %+v", s)
	}
}

type exportCounter struct {
	observability.NoopExportHooks
	formats chan string
}

func (c *exportCounter) OnExport(_ context.Context, format string, _ int, _ time.Duration, _ error) {
	c.formats <- format
}

func TestRenderReportsExports(t *testing.T) {
	hooks := &exportCounter{formats: make(chan string, 4)}
	observability.SetExportHooks(hooks)
	t.Cleanup(observability.Reset)

	if _, err := Render(context.Background(), testView(t), Options{Formats: []string{FormatSVG, FormatDOT}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n := len(hooks.formats); n != 2 {
		t.Errorf("export events = %d, want 2", n)
	}
}

func TestRunnerCachesArtifacts(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(4<<20), nil)
	v := testView(t)
	opts := Options{Formats: []string{FormatSVG}}

	first, err := r.Execute(context.Background(), v, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(first.CacheHits) != 0 {
		t.Errorf("first run hits = %v, want none", first.CacheHits)
	}

	second, err := r.Execute(context.Background(), v, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(second.CacheHits) != 1 {
		t.Errorf("second run hits = %v, want [svg]", second.CacheHits)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs")
	}

	v.Nodes[0].Text = "Changed"
	third, _ := r.Execute(context.Background(), v, opts)
	if len(third.CacheHits) != 0 {
		t.Error("a changed view must not hit the cache")
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out", "map")
	artifacts := map[string][]byte{FormatSVG: []byte("<svg/>"), FormatDOT: []byte("graph G {}")}

	paths, err := WriteArtifacts(artifacts, []string{FormatDOT, FormatSVG, FormatPNG}, base)
	if err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	if len(paths) != 2 || paths[0] != base+".dot" || paths[1] != base+".svg" {
		t.Errorf("paths = %v", paths)
	}
	data, err := os.ReadFile(base + ".svg")
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg file = %q, %v", data, err)
	}
}
