package editor

import (
	"errors"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
)

var sentinelCodes = []struct {
	err     error
	code    mmerrors.Code
	message string
}{
	{diagram.ErrInvalidNodeID, mmerrors.ErrCodeInvalidInput, "node id must be non-empty UTF-8"},
	{diagram.ErrInvalidText, mmerrors.ErrCodeInvalidInput, "label must be valid UTF-8"},
	{diagram.ErrDuplicateID, mmerrors.ErrCodeDuplicateID, "a node with that id already exists"},
	{diagram.ErrUnknownNode, mmerrors.ErrCodeUnknownNode, "no such node"},
	{diagram.ErrUnknownEdge, mmerrors.ErrCodeUnknownEdge, "those nodes are not connected"},
	{diagram.ErrParallelEdge, mmerrors.ErrCodeInvalidSelection, "those nodes are already connected"},
	{diagram.ErrInvalidSelection, mmerrors.ErrCodeInvalidSelection, "a node cannot be connected to itself"},
	{diagram.ErrCorruptSnapshot, mmerrors.ErrCodeCorruptSnapshot, "saved state could not be restored"},
}

// classify converts graph and codec errors into coded errors. Errors that
// already carry a code pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var coded *mmerrors.Error
	if errors.As(err, &coded) {
		return err
	}
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return mmerrors.Wrap(s.code, err, "%s", s.message)
		}
	}
	return mmerrors.Wrap(mmerrors.ErrCodeInternal, err, "internal error")
}

func unknownNode(id string) error {
	return mmerrors.New(mmerrors.ErrCodeUnknownNode, "no such node: %q", id)
}
