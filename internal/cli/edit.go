package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yash2003ruhela/mind-map/pkg/editor"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
	"github.com/yash2003ruhela/mind-map/pkg/pipeline"
	"github.com/yash2003ruhela/mind-map/pkg/snapshot"
)

type editOpts struct {
	open   string // snapshot to start from
	save   string // snapshot written on quit
	output string // export base path for the x key
}

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit [snapshot]",
		Short: "Edit a diagram in the terminal",
		Long: `Open the interactive editor. With a snapshot argument the diagram is
loaded from it and, unless --save says otherwise, written back on quit.

Keys:
  a            add a node            tab/shift+tab  cycle focus
  space        toggle selection      esc            clear selection
  c            connect two selected  d              delete selected
  e            edit focused label    m              move focused node
  u / r        undo / redo           n              new diagram
  x            export PNG            q              quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.open = args[0]
				if opts.save == "" {
					opts.save = args[0]
				}
			}
			return c.runEdit(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.save, "save", "", "write the diagram to this snapshot file on quit")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "mindmap", "export base path for the x key")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, opts *editOpts) error {
	sess, err := c.newSession()
	if err != nil {
		return err
	}
	if opts.open != "" {
		snap, err := readSnapshot(opts.open)
		switch {
		case mmerrors.Is(err, mmerrors.ErrCodeFileNotFound):
			// A new file is created on quit.
		case err != nil:
			return err
		default:
			if err := sess.Load(snap); err != nil {
				return err
			}
		}
	}

	export := func(v editor.View) ([]string, error) {
		paths, _, err := c.render(ctx, v, opts.output, &exportOpts{formats: pipeline.FormatPNG})
		return paths, err
	}

	// The editor owns the terminal; keep log lines out of the way.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.FatalLevel)
	defer c.Logger.SetLevel(level)

	p := tea.NewProgram(newEditorModel(sess, export), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	if opts.save == "" {
		return nil
	}
	codec, err := codecForPath(opts.save)
	if err != nil {
		return err
	}
	if err := snapshot.WriteFile(opts.save, sess.Snapshot(), codec); err != nil {
		return mmerrors.Wrap(mmerrors.ErrCodeInvalidPath, err, "could not save %s", opts.save)
	}
	printSuccess("Saved %s", opts.save)
	printStats(len(sess.View().Nodes), len(sess.View().Edges), false)
	return nil
}
