package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
	"github.com/yash2003ruhela/mind-map/pkg/snapshot"
)

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func testContext(c *CLI) context.Context {
	return withLogger(context.Background(), c.Logger)
}

func sampleSnapshot() diagram.Snapshot {
	return diagram.Snapshot{
		Nodes: []diagram.NodeState{
			{ID: "a", X: 50, Y: 50, Text: "Alpha"},
			{ID: "b", X: 400, Y: 300, Text: "Beta"},
		},
		Edges: []diagram.Edge{{From: "a", To: "b"}},
	}
}

func TestCodecForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"d.json", "json"},
		{"d", "json"},
		{"D.JSON.ZST", "json+zstd"},
		{"dir/d.msgpack", "msgpack"},
		{"d.mp", "msgpack"},
		{"d.msgpack.zst", "msgpack+zstd"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, err := codecForPath(tt.path)
			if err != nil {
				t.Fatalf("codecForPath() error: %v", err)
			}
			if c.Name() != tt.want {
				t.Errorf("codec = %s, want %s", c.Name(), tt.want)
			}
		})
	}
}

func TestTrimSnapshotExt(t *testing.T) {
	tests := map[string]string{
		"d.json":             "d",
		"dir/d.msgpack.zst":  "dir/d",
		"d":                  "d",
		"archive.v2.json":    "archive.v2",
		"dir.with.dots/file": "dir.with.dots/file",
	}
	for in, want := range tests {
		if got := trimSnapshotExt(in); got != want {
			t.Errorf("trimSnapshotExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadSnapshotErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := readSnapshot(filepath.Join(dir, "missing.json"))
	if !mmerrors.Is(err, mmerrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %s, want %s", mmerrors.GetCode(err), mmerrors.ErrCodeFileNotFound)
	}

	bad := writeFile(t, dir, "bad.json", `{"version": 1, "nodes": [`)
	_, err = readSnapshot(bad)
	if !mmerrors.Is(err, mmerrors.ErrCodeCorruptSnapshot) {
		t.Errorf("corrupt file: code = %s, want %s", mmerrors.GetCode(err), mmerrors.ErrCodeCorruptSnapshot)
	}
}

func TestReadSnapshotCodecs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"d.json", "d.json.zst", "d.msgpack", "d.msgpack.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			codec, err := codecForPath(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := snapshot.WriteFile(path, sampleSnapshot(), codec); err != nil {
				t.Fatal(err)
			}
			got, err := readSnapshot(path)
			if err != nil {
				t.Fatalf("readSnapshot() error: %v", err)
			}
			if len(got.Nodes) != 2 || got.Nodes[1].Text != "Beta" {
				t.Errorf("nodes = %+v", got.Nodes)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"png"}},
		{"svg", []string{"svg"}},
		{"png, svg ,dot", []string{"png", "svg", "dot"}},
		{"svg,,", []string{"svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPipelineOptionsMergeConfig(t *testing.T) {
	c := newTestCLI()
	c.Config.Export.Scale = 3
	c.Config.Export.FontSize = 18

	opts := c.pipelineOptions(&exportOpts{formats: "svg"})
	if opts.Scale != 3 || opts.FontSize != 18 {
		t.Errorf("defaults not applied: scale=%v font=%v", opts.Scale, opts.FontSize)
	}

	opts = c.pipelineOptions(&exportOpts{scale: 1.5, fontSize: 10, showIDs: true, title: "T"})
	if opts.Scale != 1.5 || opts.FontSize != 10 {
		t.Errorf("flags not applied: scale=%v font=%v", opts.Scale, opts.FontSize)
	}
	if !opts.ShowIDs || opts.Title != "T" {
		t.Errorf("flags not applied: %+v", opts)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"png"}) {
		t.Errorf("formats = %v, want [png]", opts.Formats)
	}
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "diagram.json")
	if err := snapshot.WriteFile(input, sampleSnapshot(), snapshot.JSON); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI()
	if err := c.runExport(testContext(c), input, &exportOpts{formats: "png,svg,dot"}); err != nil {
		t.Fatalf("runExport() error: %v", err)
	}

	for _, name := range []string{"diagram.png", "diagram.svg", "diagram.dot"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	dot, err := os.ReadFile(filepath.Join(dir, "diagram.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), "Alpha") {
		t.Errorf("dot output missing a label:\n%s", dot)
	}
}

func TestRunExportOutputFlag(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.msgpack")
	if err := snapshot.WriteFile(input, sampleSnapshot(), snapshot.MsgPack); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI()
	out := filepath.Join(dir, "renders", "out")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := c.runExport(testContext(c), input, &exportOpts{output: out, formats: "svg", noCache: true}); err != nil {
		t.Fatalf("runExport() error: %v", err)
	}
	if _, err := os.Stat(out + ".svg"); err != nil {
		t.Errorf("out.svg not written: %v", err)
	}
}

func TestRunExportErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "d.json")
	if err := snapshot.WriteFile(input, sampleSnapshot(), snapshot.JSON); err != nil {
		t.Fatal(err)
	}
	c := newTestCLI()

	err := c.runExport(testContext(c), input, &exportOpts{formats: "gif"})
	if !mmerrors.Is(err, mmerrors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format: code = %s, want %s", mmerrors.GetCode(err), mmerrors.ErrCodeInvalidFormat)
	}

	err = c.runExport(testContext(c), filepath.Join(dir, "nope.json"), &exportOpts{})
	if !mmerrors.Is(err, mmerrors.ErrCodeFileNotFound) {
		t.Errorf("missing input: code = %s, want %s", mmerrors.GetCode(err), mmerrors.ErrCodeFileNotFound)
	}
}
