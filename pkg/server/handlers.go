package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yash2003ruhela/mind-map/pkg/buildinfo"
	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
	"github.com/yash2003ruhela/mind-map/pkg/pipeline"
)

// MaxSnapshotBytes bounds an uploaded snapshot.
const MaxSnapshotBytes = 4 << 20

// AddNodeRequest is the body of POST /api/nodes. Without an id one is
// generated; without a position the node goes to the default position.
type AddNodeRequest struct {
	ID   string   `json:"id,omitempty" validate:"omitempty,max=128"`
	Text string   `json:"text,omitempty" validate:"max=4096"`
	X    *float64 `json:"x,omitempty" validate:"required_with=Y"`
	Y    *float64 `json:"y,omitempty" validate:"required_with=X"`
}

// UpdateNodeRequest is the body of PATCH /api/nodes/{id}.
type UpdateNodeRequest struct {
	Text *string  `json:"text,omitempty" validate:"omitempty,max=4096"`
	X    *float64 `json:"x,omitempty" validate:"required_with=Y"`
	Y    *float64 `json:"y,omitempty" validate:"required_with=X"`
}

// SelectRequest is the body of POST /api/selection.
type SelectRequest struct {
	ID string `json:"id" validate:"required"`
}

// ExportQuery holds the query parameters of GET /api/export/{format}.
type ExportQuery struct {
	Scale    float64 `json:"scale" validate:"omitempty,gt=0,lte=8"`
	FontSize float64 `json:"font_size" validate:"omitempty,gt=0,lte=96"`
	ShowIDs  bool    `json:"show_ids"`
}

type selectResponse struct {
	ID       string   `json:"id"`
	Selected bool     `json:"selected"`
	Current  []string `json:"current"`
}

type deleteResponse struct {
	RemovedEdges int `json:"removed_edges"`
}

type historyResponse struct {
	Applied bool                `json:"applied"`
	History editor.HistoryState `json:"history"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Read().Version,
	})
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, http.StatusOK)
}

func (s *Server) respondView(w http.ResponseWriter, status int) {
	var out viewJSON
	_ = s.withSession(func(sess *editor.Session) error {
		out = toViewJSON(sess.View(), sess.History())
		return nil
	})
	respondJSON(w, status, out)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	var h editor.HistoryState
	_ = s.withSession(func(sess *editor.Session) error {
		h = sess.History()
		return nil
	})
	respondJSON(w, http.StatusOK, h)
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var req AddNodeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	var at *diagram.Point
	if req.X != nil {
		at = &diagram.Point{X: *req.X, Y: *req.Y}
	}
	var n diagram.Node
	err := s.withSession(func(sess *editor.Session) error {
		var err error
		n, err = sess.CreateNode(req.ID, at, req.Text)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toNodeJSON(n))
}

func (s *Server) updateNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateNodeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Text == nil && req.X == nil {
		respondError(w, mmerrors.New(mmerrors.ErrCodeInvalidInput, "nothing to update: set text or x and y"))
		return
	}

	var n diagram.Node
	// Text and position are applied as two actions with one history entry
	// each, so a single undo reverts only the move.
	err := s.withSession(func(sess *editor.Session) error {
		if req.Text != nil {
			if err := sess.EditLabel(id, *req.Text); err != nil {
				return err
			}
		}
		if req.X != nil {
			if _, err := sess.MoveNode(id, *req.X, *req.Y); err != nil {
				return err
			}
		}
		n, _ = sess.View().Node(id)
		return nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toNodeJSON(n))
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var removed []diagram.Edge
	err := s.withSession(func(sess *editor.Session) error {
		var err error
		removed, err = sess.DeleteNode(id)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deleteResponse{RemovedEdges: len(removed)})
}

func (s *Server) toggleSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	resp := selectResponse{ID: req.ID}
	err := s.withSession(func(sess *editor.Session) error {
		on, err := sess.Select(req.ID)
		if err != nil {
			return err
		}
		resp.Selected = on
		resp.Current = sess.View().Selected
		return nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	if resp.Current == nil {
		resp.Current = []string{}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	_ = s.withSession(func(sess *editor.Session) error {
		sess.ClearSelection()
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var e diagram.Edge
	var seg diagram.Segment
	err := s.withSession(func(sess *editor.Session) error {
		var err error
		if e, err = sess.Connect(); err != nil {
			return err
		}
		v := sess.View()
		seg = v.Edges[len(v.Edges)-1].Segment
		return nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toEdgeJSON(e, seg))
}

func (s *Server) deleteSelected(w http.ResponseWriter, r *http.Request) {
	var removed []diagram.Edge
	err := s.withSession(func(sess *editor.Session) error {
		var err error
		removed, err = sess.DeleteSelected()
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deleteResponse{RemovedEdges: len(removed)})
}

func (s *Server) disconnect(w http.ResponseWriter, r *http.Request) {
	from, to := chi.URLParam(r, "from"), chi.URLParam(r, "to")
	err := s.withSession(func(sess *editor.Session) error {
		return sess.Disconnect(from, to)
	})
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	s.step(w, (*editor.Session).Undo)
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	s.step(w, (*editor.Session).Redo)
}

func (s *Server) step(w http.ResponseWriter, fn func(*editor.Session) (bool, error)) {
	var resp historyResponse
	err := s.withSession(func(sess *editor.Session) error {
		applied, err := fn(sess)
		resp = historyResponse{Applied: applied, History: sess.History()}
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) newDiagram(w http.ResponseWriter, r *http.Request) {
	err := s.withSession(func(sess *editor.Session) error {
		return sess.NewDiagram()
	})
	if err != nil {
		respondError(w, err)
		return
	}
	s.respondView(w, http.StatusOK)
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	var data []byte
	err := s.withSession(func(sess *editor.Session) error {
		var err error
		data, err = sess.ExportSnapshot()
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="mindmap.json"`)
	_, _ = w.Write(data)
}

func (s *Server) putSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSnapshotBytes))
	if err != nil {
		respondError(w, mmerrors.Wrap(mmerrors.ErrCodeInvalidInput, err, "could not read snapshot"))
		return
	}
	err = s.withSession(func(sess *editor.Session) error {
		return sess.ImportSnapshot(data)
	})
	if err != nil {
		respondError(w, err)
		return
	}
	s.respondView(w, http.StatusOK)
}

func (s *Server) exportDiagram(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		respondError(w, mmerrors.Wrap(mmerrors.ErrCodeInvalidFormat, err, "unsupported export format %q", format))
		return
	}
	q, err := parseExportQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	opts := s.export
	opts.Formats = []string{format}
	opts.ShowIDs = q.ShowIDs
	if q.Scale > 0 {
		opts.Scale = q.Scale
	}
	if q.FontSize > 0 {
		opts.FontSize = q.FontSize
	}

	var v editor.View
	_ = s.withSession(func(sess *editor.Session) error {
		v = sess.View()
		return nil
	})

	result, err := s.runner.Execute(r.Context(), v, opts)
	if err != nil {
		respondError(w, mmerrors.Wrap(mmerrors.ErrCodeInternal, err, "export failed"))
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="mindmap`+pipeline.Extension(format)+`"`)
	_, _ = w.Write(result.Artifacts[format])
}

func parseExportQuery(r *http.Request) (ExportQuery, error) {
	var q ExportQuery
	values := r.URL.Query()
	parse := func(name string, dst *float64) error {
		raw := values.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return mmerrors.New(mmerrors.ErrCodeInvalidInput, "%s must be a number, got %q", name, raw)
		}
		*dst = v
		return nil
	}
	if err := parse("scale", &q.Scale); err != nil {
		return q, err
	}
	if err := parse("font_size", &q.FontSize); err != nil {
		return q, err
	}
	if raw := values.Get("show_ids"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, mmerrors.New(mmerrors.ErrCodeInvalidInput, "show_ids must be a boolean, got %q", raw)
		}
		q.ShowIDs = b
	}
	return q, validateStruct(q)
}
