package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type sizeJSON struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type nodeJSON struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	Selected bool    `json:"selected"`
}

type edgeJSON struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Start pointJSON `json:"start"`
	End   pointJSON `json:"end"`
}

type viewJSON struct {
	Canvas   sizeJSON            `json:"canvas"`
	NodeSize sizeJSON            `json:"node_size"`
	Nodes    []nodeJSON          `json:"nodes"`
	Edges    []edgeJSON          `json:"edges"`
	Selected []string            `json:"selected"`
	Dragging string              `json:"dragging,omitempty"`
	History  editor.HistoryState `json:"history"`
}

func toNodeJSON(n diagram.Node) nodeJSON {
	return nodeJSON{ID: n.ID, X: n.X, Y: n.Y, Text: n.Text, Selected: n.Selected}
}

func toEdgeJSON(e diagram.Edge, seg diagram.Segment) edgeJSON {
	return edgeJSON{
		From:  e.From,
		To:    e.To,
		Start: pointJSON{X: seg.From.X, Y: seg.From.Y},
		End:   pointJSON{X: seg.To.X, Y: seg.To.Y},
	}
}

func toViewJSON(v editor.View, h editor.HistoryState) viewJSON {
	out := viewJSON{
		Canvas:   sizeJSON{Width: v.Canvas.W, Height: v.Canvas.H},
		NodeSize: sizeJSON{Width: v.NodeSize.W, Height: v.NodeSize.H},
		Nodes:    make([]nodeJSON, len(v.Nodes)),
		Edges:    make([]edgeJSON, len(v.Edges)),
		Selected: v.Selected,
		Dragging: v.Dragging,
		History:  h,
	}
	if out.Selected == nil {
		out.Selected = []string{}
	}
	for i, n := range v.Nodes {
		out.Nodes[i] = toNodeJSON(n)
	}
	for i, e := range v.Edges {
		out.Edges[i] = toEdgeJSON(e.Edge, e.Segment)
	}
	return out
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	code := mmerrors.GetCode(err)
	if code == "" {
		code = mmerrors.ErrCodeInternal
	}
	respondJSON(w, statusFor(code), errorResponse{
		Code:    string(code),
		Message: mmerrors.UserMessage(err),
	})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code mmerrors.Code) int {
	switch code {
	case mmerrors.ErrCodeDuplicateID:
		return http.StatusConflict
	case mmerrors.ErrCodeUnknownNode, mmerrors.ErrCodeUnknownEdge, mmerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case mmerrors.ErrCodeInvalidSelection, mmerrors.ErrCodeInvalidInput:
		return http.StatusUnprocessableEntity
	case mmerrors.ErrCodeCorruptSnapshot, mmerrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case mmerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body into dst. An empty body leaves dst
// unchanged.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return mmerrors.Wrap(mmerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return validateStruct(dst)
}
