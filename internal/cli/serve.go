package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yash2003ruhela/mind-map/pkg/cache"
	"github.com/yash2003ruhela/mind-map/pkg/pipeline"
	"github.com/yash2003ruhela/mind-map/pkg/server"
)

type serveOpts struct {
	addr    string
	origins []string
	load    string // snapshot to open before serving
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one editing session over HTTP",
		Long: `Serve a single diagram through a JSON API under /api for a browser
front end. The session lives in memory until the server stops; use
GET /api/snapshot to keep the result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringSliceVar(&opts.origins, "allow-origin", nil, "CORS origin(s) (default from config)")
	cmd.Flags().StringVar(&opts.load, "load", "", "open this snapshot file first")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	sess, err := c.newSession()
	if err != nil {
		return err
	}
	if opts.load != "" {
		snap, err := readSnapshot(opts.load)
		if err != nil {
			return err
		}
		if err := sess.Load(snap); err != nil {
			return err
		}
		printInfo("Opened %s", opts.load)
	}

	addr := opts.addr
	if addr == "" {
		addr = c.Config.Server.Addr
	}
	origins := opts.origins
	if origins == nil {
		origins = c.Config.Server.AllowedOrigins
	}

	runner := pipeline.NewRunner(cache.NewMemoryCache(server.DefaultCacheSize), logger)
	srv := server.New(sess,
		server.WithLogger(logger),
		server.WithAllowedOrigins(origins...),
		server.WithRunner(runner),
		server.WithExportDefaults(c.exportDefaults()),
	)

	printSuccess("Serving on %s", StyleHighlight.Render("http://"+addr))
	if len(origins) > 0 {
		printKeyValue("CORS", strings.Join(origins, ", "))
	}
	printKeyValue("Nodes", strconv.Itoa(len(sess.View().Nodes)))
	printDetail("Press Ctrl+C to stop")
	return srv.Run(ctx, addr)
}
