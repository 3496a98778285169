package editor

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	"github.com/yash2003ruhela/mind-map/pkg/snapshot"
)

// Default geometry, in pixels.
var (
	DefaultCanvas   = diagram.Size{W: 800, H: 600}
	DefaultNodeSize = diagram.Size{W: 100, H: 40}
	DefaultPosition = diagram.Point{X: 50, Y: 50}
)

// Options configures a Session.
type Options struct {
	Canvas          diagram.Size  // drawing area; positions are clamped to it
	NodeSize        diagram.Size  // box size used for clamping and line endpoints
	DefaultPosition diagram.Point // where AddNode places new nodes

	AllowParallelEdges bool
	HistoryLimit       int // <= 0 keeps every entry

	Codec  snapshot.Codec // history encoding; nil means snapshot.JSON
	IDs    IDGenerator    // nil means Sequential("node-")
	Logger *log.Logger    // nil discards output
}

// DefaultOptions returns the editor defaults: an 800x600 canvas, 100x40
// boxes placed at (50, 50), parallel edges allowed and unbounded history.
func DefaultOptions() Options {
	return Options{
		Canvas:             DefaultCanvas,
		NodeSize:           DefaultNodeSize,
		DefaultPosition:    DefaultPosition,
		AllowParallelEdges: true,
	}
}

func (o *Options) normalize() error {
	if o.Canvas == (diagram.Size{}) {
		o.Canvas = DefaultCanvas
	}
	if o.NodeSize == (diagram.Size{}) {
		o.NodeSize = DefaultNodeSize
	}
	if o.Canvas.W <= 0 || o.Canvas.H <= 0 {
		return fmt.Errorf("canvas size must be positive, got %vx%v", o.Canvas.W, o.Canvas.H)
	}
	if o.NodeSize.W <= 0 || o.NodeSize.H <= 0 {
		return fmt.Errorf("node size must be positive, got %vx%v", o.NodeSize.W, o.NodeSize.H)
	}
	if o.Codec == nil {
		o.Codec = snapshot.JSON
	}
	if o.IDs == nil {
		o.IDs = Sequential("node-")
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// IDGenerator picks the id for a node created without an explicit one.
// count is the current node count and taken reports ids already in use.
type IDGenerator func(count int, taken func(id string) bool) string

// Sequential numbers nodes prefix1, prefix2, ... using count+1 and moving
// past any number already taken, so ids stay unique after deletions.
func Sequential(prefix string) IDGenerator {
	return func(count int, taken func(string) bool) string {
		for n := count + 1; ; n++ {
			id := prefix + strconv.Itoa(n)
			if !taken(id) {
				return id
			}
		}
	}
}

// UUID generates random version 4 ids.
func UUID() IDGenerator {
	return func(_ int, taken func(string) bool) string {
		for {
			id := uuid.New().String()
			if !taken(id) {
				return id
			}
		}
	}
}

// Generator returns the generator registered under name: "sequential" or
// "uuid".
func Generator(name string) (IDGenerator, error) {
	switch name {
	case "", "sequential":
		return Sequential("node-"), nil
	case "uuid":
		return UUID(), nil
	}
	return nil, fmt.Errorf("unknown id generator %q", name)
}
