package cli

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
	"github.com/yash2003ruhela/mind-map/pkg/pipeline"
	"github.com/yash2003ruhela/mind-map/pkg/snapshot"
)

// exportOpts holds the flags shared by export and replay.
type exportOpts struct {
	output   string  // base path; each format appends its extension
	formats  string  // comma-separated formats
	scale    float64 // raster scale factor
	fontSize float64 // label font size in pixels
	showIDs  bool    // print node ids under labels (dot, graphviz)
	title    string  // SVG document title
	noCache  bool
}

func (o *exportOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output base path (default: input name without extension)")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): png (default), svg, dot, graphviz, json (comma-separated)")
	cmd.Flags().Float64Var(&o.scale, "scale", 0, "raster scale factor (default from config)")
	cmd.Flags().Float64Var(&o.fontSize, "font-size", 0, "label font size (default from config)")
	cmd.Flags().BoolVar(&o.showIDs, "show-ids", false, "include node ids in Graphviz output")
	cmd.Flags().StringVar(&o.title, "title", "", "SVG document title")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "render every format even if unchanged")
}

// pipelineOptions merges the flags over the configured defaults.
func (c *CLI) pipelineOptions(o *exportOpts) pipeline.Options {
	opts := c.exportDefaults()
	opts.Formats = parseFormats(o.formats)
	opts.ShowIDs = o.showIDs
	opts.Title = o.title
	if o.scale > 0 {
		opts.Scale = o.scale
	}
	if o.fontSize > 0 {
		opts.FontSize = o.fontSize
	}
	return opts
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [snapshot]",
		Short: "Render a saved diagram to image or Graphviz files",
		Long: `Render a snapshot file to one or more formats.

The snapshot codec is chosen from the file name: .json (default), .msgpack,
and either with a .zst suffix for zstd-compressed data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], &opts)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	snap, err := readSnapshot(input)
	if err != nil {
		return err
	}

	sess, err := c.newSession()
	if err != nil {
		return err
	}
	if err := sess.Load(snap); err != nil {
		return err
	}

	base := opts.output
	if base == "" {
		base = trimSnapshotExt(input)
	}
	paths, cached, err := c.render(ctx, sess.View(), base, opts)
	if err != nil {
		return err
	}

	prog.done("Exported " + input)
	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(snap.Nodes), len(snap.Edges), cached)
	return nil
}

// render runs the pipeline for v and writes the artifacts next to base. It
// reports whether every artifact came from the cache.
func (c *CLI) render(ctx context.Context, v editor.View, base string, o *exportOpts) ([]string, bool, error) {
	opts := c.pipelineOptions(o)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, mmerrors.Wrap(mmerrors.ErrCodeInvalidFormat, err, "invalid export options")
	}
	for _, f := range opts.Formats {
		if err := mmerrors.ValidateOutputPath(base+pipeline.Extension(f), nil); err != nil {
			return nil, false, err
		}
	}

	result, err := c.newRunner(o.noCache).Execute(ctx, v, opts)
	if err != nil {
		return nil, false, err
	}
	paths, err := pipeline.WriteArtifacts(result.Artifacts, opts.Formats, base)
	if err != nil {
		return paths, false, err
	}
	return paths, len(result.CacheHits) == len(opts.Formats), nil
}

// readSnapshot decodes a snapshot file with the codec its name implies.
func readSnapshot(path string) (diagram.Snapshot, error) {
	codec, err := codecForPath(path)
	if err != nil {
		return diagram.Snapshot{}, err
	}
	snap, err := snapshot.ReadFile(path, codec)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return snap, mmerrors.Wrap(mmerrors.ErrCodeFileNotFound, err, "snapshot file not found: %s", path)
	case errors.Is(err, snapshot.ErrCorrupt):
		return snap, mmerrors.Wrap(mmerrors.ErrCodeCorruptSnapshot, err, "%s is not a valid %s snapshot", path, codec.Name())
	case err != nil:
		return snap, mmerrors.Wrap(mmerrors.ErrCodeInternal, err, "could not read %s", path)
	}
	return snap, nil
}

// codecForPath picks the snapshot codec from a file name.
func codecForPath(path string) (snapshot.Codec, error) {
	name := strings.ToLower(filepath.Base(path))
	compress := strings.HasSuffix(name, ".zst")
	name = strings.TrimSuffix(name, ".zst")

	codec := "json"
	if strings.HasSuffix(name, ".msgpack") || strings.HasSuffix(name, ".mp") {
		codec = "msgpack"
	}
	c, err := snapshot.Lookup(codec, compress)
	if err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeInvalidFormat, err, "unsupported snapshot file %q", path)
	}
	return c, nil
}

// trimSnapshotExt strips the snapshot extension, including a .zst suffix.
func trimSnapshotExt(path string) string {
	path = strings.TrimSuffix(path, ".zst")
	return strings.TrimSuffix(path, filepath.Ext(path))
}
