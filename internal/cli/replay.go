package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
	"github.com/yash2003ruhela/mind-map/pkg/snapshot"
)

// Script is a list of editor actions applied in order.
//
// In TOML each action is an [[action]] table:
//
//	[[action]]
//	op = "add"
//	id = "root"
//	text = "Plan"
//
//	[[action]]
//	op = "select"
//	id = "root"
type Script struct {
	Actions []Action `toml:"action" json:"actions"`
}

// Action is one scripted user action. Op selects which fields are read.
type Action struct {
	Op   string   `toml:"op" json:"op"`
	ID   string   `toml:"id,omitempty" json:"id,omitempty"`
	From string   `toml:"from,omitempty" json:"from,omitempty"`
	To   string   `toml:"to,omitempty" json:"to,omitempty"`
	Text *string  `toml:"text,omitempty" json:"text,omitempty"`
	X    *float64 `toml:"x,omitempty" json:"x,omitempty"`
	Y    *float64 `toml:"y,omitempty" json:"y,omitempty"`
	DX   float64  `toml:"dx,omitempty" json:"dx,omitempty"`
	DY   float64  `toml:"dy,omitempty" json:"dy,omitempty"`
	Path string   `toml:"path,omitempty" json:"path,omitempty"`
}

// Supported action names.
const (
	opAdd        = "add"        // id, x, y and text are optional
	opSelect     = "select"     // id
	opClear      = "clear"      // clear the selection
	opConnect    = "connect"    // the two selected nodes
	opDelete     = "delete"     // id, or the selection when id is empty
	opDisconnect = "disconnect" // from, to
	opEdit       = "edit"       // id, text
	opMove       = "move"       // id, then x and y or dx and dy
	opUndo       = "undo"
	opRedo       = "redo"
	opNew        = "new"
	opLoad       = "load" // path to a snapshot file
)

// loadScript reads a replay script. Files ending in .json are JSON, all
// others TOML. Unknown keys are rejected in both.
func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mmerrors.Wrap(mmerrors.ErrCodeFileNotFound, err, "script not found: %s", path)
		}
		return nil, mmerrors.Wrap(mmerrors.ErrCodeInternal, err, "could not read %s", path)
	}

	var s Script
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, mmerrors.Wrap(mmerrors.ErrCodeInvalidInput, err, "could not parse %s", path)
		}
	} else {
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, mmerrors.Wrap(mmerrors.ErrCodeInvalidInput, err, "could not parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, mmerrors.New(mmerrors.ErrCodeInvalidInput, "unknown key %q in %s", undecoded[0].String(), path)
		}
	}

	for i, a := range s.Actions {
		if err := a.validate(); err != nil {
			return nil, mmerrors.Wrap(mmerrors.ErrCodeInvalidInput, err, "action %d (%s)", i+1, a.Op)
		}
	}
	return &s, nil
}

func (a Action) validate() error {
	switch a.Op {
	case opAdd, opClear, opConnect, opDelete, opUndo, opRedo, opNew:
	case opSelect:
		if a.ID == "" {
			return fmt.Errorf("id is required")
		}
	case opDisconnect:
		if a.From == "" || a.To == "" {
			return fmt.Errorf("from and to are required")
		}
	case opEdit:
		if a.ID == "" || a.Text == nil {
			return fmt.Errorf("id and text are required")
		}
	case opMove:
		if a.ID == "" {
			return fmt.Errorf("id is required")
		}
		if (a.X == nil) != (a.Y == nil) {
			return fmt.Errorf("x and y must be set together")
		}
	case opLoad:
		if a.Path == "" {
			return fmt.Errorf("path is required")
		}
	default:
		return fmt.Errorf("unknown op %q", a.Op)
	}
	if a.Op == opAdd && (a.X == nil) != (a.Y == nil) {
		return fmt.Errorf("x and y must be set together")
	}
	return nil
}

// apply runs a against sess and returns a short description of the outcome.
// dir resolves relative load paths.
func (a Action) apply(sess *editor.Session, dir string) (string, error) {
	switch a.Op {
	case opAdd:
		return a.add(sess)
	case opSelect:
		on, err := sess.Select(a.ID)
		if err != nil {
			return "", err
		}
		if on {
			return "selected " + a.ID, nil
		}
		return "deselected " + a.ID, nil
	case opClear:
		sess.ClearSelection()
		return "selection cleared", nil
	case opConnect:
		e, err := sess.Connect()
		if err != nil {
			return "", err
		}
		return "connected " + e.From + " to " + e.To, nil
	case opDelete:
		if a.ID != "" {
			removed, err := sess.DeleteNode(a.ID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("deleted %s and %d edge(s)", a.ID, len(removed)), nil
		}
		removed, err := sess.DeleteSelected()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("deleted selection and %d edge(s)", len(removed)), nil
	case opDisconnect:
		if err := sess.Disconnect(a.From, a.To); err != nil {
			return "", err
		}
		return "disconnected " + a.From + " and " + a.To, nil
	case opEdit:
		if err := sess.EditLabel(a.ID, *a.Text); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %q", a.ID, *a.Text), nil
	case opMove:
		return a.move(sess)
	case opUndo:
		return stepResult("undo", sess.Undo)
	case opRedo:
		return stepResult("redo", sess.Redo)
	case opNew:
		if err := sess.NewDiagram(); err != nil {
			return "", err
		}
		return "new diagram", nil
	case opLoad:
		path := a.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		snap, err := readSnapshot(path)
		if err != nil {
			return "", err
		}
		if err := sess.Load(snap); err != nil {
			return "", err
		}
		return fmt.Sprintf("loaded %d node(s)", len(snap.Nodes)), nil
	}
	return "", mmerrors.New(mmerrors.ErrCodeInvalidInput, "unknown op %q", a.Op)
}

func (a Action) add(sess *editor.Session) (string, error) {
	text := ""
	if a.Text != nil {
		text = *a.Text
	}
	var at *diagram.Point
	if a.X != nil {
		at = &diagram.Point{X: *a.X, Y: *a.Y}
	}
	n, err := sess.CreateNode(a.ID, at, text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("added %s at %s", n.ID, formatPoint(n.X, n.Y)), nil
}

func (a Action) move(sess *editor.Session) (string, error) {
	if a.X != nil {
		p, err := sess.MoveNode(a.ID, *a.X, *a.Y)
		if err != nil {
			return "", err
		}
		return "moved " + a.ID + " to " + formatPoint(p.X, p.Y), nil
	}

	if err := sess.BeginDrag(a.ID); err != nil {
		return "", err
	}
	p, err := sess.DragBy(a.DX, a.DY)
	if err != nil {
		sess.CancelDrag()
		return "", err
	}
	if _, err := sess.EndDrag(); err != nil {
		return "", err
	}
	return "moved " + a.ID + " to " + formatPoint(p.X, p.Y), nil
}

func stepResult(name string, step func() (bool, error)) (string, error) {
	applied, err := step()
	if err != nil {
		return "", err
	}
	if !applied {
		return "nothing to " + name, nil
	}
	return name + " applied", nil
}

func formatPoint(x, y float64) string {
	return "(" + strconv.FormatFloat(x, 'f', -1, 64) + ", " + strconv.FormatFloat(y, 'f', -1, 64) + ")"
}

// replayResult is one row of the replay report.
type replayResult struct {
	Op     string
	Detail string
	Err    error
}

// replay applies every action of s to sess. It stops at the first failure
// unless keepGoing is set, and returns the failure count.
func replay(sess *editor.Session, s *Script, dir string, keepGoing bool) ([]replayResult, int) {
	var results []replayResult
	failed := 0
	for _, a := range s.Actions {
		detail, err := a.apply(sess, dir)
		results = append(results, replayResult{Op: a.Op, Detail: detail, Err: err})
		if err != nil {
			failed++
			if !keepGoing {
				break
			}
		}
	}
	return results, failed
}

type replayOpts struct {
	export    exportOpts
	save      string
	keepGoing bool
	quiet     bool
}

// replayCommand creates the replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOpts

	cmd := &cobra.Command{
		Use:   "replay [script]",
		Short: "Apply a script of editor actions and export the result",
		Long: `Replay a TOML or JSON script of editor actions against a fresh diagram.

Each action has an op (add, select, clear, connect, delete, disconnect, edit,
move, undo, redo, new, load) plus the fields that op reads. The final
diagram can be saved as a snapshot and rendered like the export command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), args[0], &opts)
		},
	}
	opts.export.addFlags(cmd)
	cmd.Flags().StringVar(&opts.save, "save", "", "write the final diagram to this snapshot file")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "continue after a failed action")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the action table")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, path string, opts *replayOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	script, err := loadScript(path)
	if err != nil {
		return err
	}
	sess, err := c.newSession()
	if err != nil {
		return err
	}

	results, failed := replay(sess, script, filepath.Dir(path), opts.keepGoing)
	if !opts.quiet {
		fmt.Println(renderTable([]string{"#", "Action", "Result"}, resultRows(results)))
	}
	prog.done(fmt.Sprintf("Replayed %d of %d action(s)", len(results), len(script.Actions)))

	if failed > 0 && !opts.keepGoing {
		return results[len(results)-1].Err
	}
	if failed > 0 {
		printWarning("%d action(s) failed", failed)
	}

	if opts.save != "" {
		codec, err := codecForPath(opts.save)
		if err != nil {
			return err
		}
		if err := snapshot.WriteFile(opts.save, sess.Snapshot(), codec); err != nil {
			return mmerrors.Wrap(mmerrors.ErrCodeInvalidPath, err, "could not save %s", opts.save)
		}
		printSuccess("Saved %s", opts.save)
	}

	if opts.export.output == "" && opts.export.formats == "" {
		return nil
	}
	base := opts.export.output
	if base == "" {
		base = strings.TrimSuffix(path, filepath.Ext(path))
	}
	v := sess.View()
	paths, cached, err := c.render(ctx, v, base, &opts.export)
	if err != nil {
		return err
	}
	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(v.Nodes), len(v.Edges), cached)
	return nil
}

func resultRows(results []replayResult) [][]string {
	rows := make([][]string, len(results))
	for i, r := range results {
		detail := r.Detail
		if r.Err != nil {
			detail = iconError + " " + mmerrors.UserMessage(r.Err)
		}
		rows[i] = []string{strconv.Itoa(i + 1), r.Op, detail}
	}
	return rows
}
