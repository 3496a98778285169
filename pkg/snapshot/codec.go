package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
)

// Version is the schema version written by every codec.
const Version = 1

var (
	// ErrCorrupt is returned when bytes cannot be decoded into a valid
	// snapshot. It is the same value as [diagram.ErrCorruptSnapshot], so
	// either can be used with errors.Is.
	ErrCorrupt = diagram.ErrCorruptSnapshot

	// ErrUnknownCodec is returned by [Lookup] for an unregistered name.
	ErrUnknownCodec = errors.New("unknown snapshot codec")
)

// Codec converts snapshots to and from bytes. Decode(Encode(s)) equals s
// for every valid snapshot. Encode refuses snapshots that fail
// [diagram.Snapshot.Validate], so malformed UTF-8 is never rewritten
// silently.
type Codec interface {
	Encode(s diagram.Snapshot) ([]byte, error)
	Decode(data []byte) (diagram.Snapshot, error)
	Name() string
}

type document struct {
	Version int    `json:"version" msgpack:"version"`
	Nodes   []node `json:"nodes" msgpack:"nodes"`
	Edges   []edge `json:"edges" msgpack:"edges"`
}

type node struct {
	ID   string  `json:"id" msgpack:"id"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Text string  `json:"text" msgpack:"text"`
}

type edge struct {
	From string `json:"from" msgpack:"from"`
	To   string `json:"to" msgpack:"to"`
}

func toDocument(s diagram.Snapshot) document {
	doc := document{
		Version: Version,
		Nodes:   make([]node, len(s.Nodes)),
		Edges:   make([]edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		doc.Nodes[i] = node{ID: n.ID, X: n.X, Y: n.Y, Text: n.Text}
	}
	for i, e := range s.Edges {
		doc.Edges[i] = edge{From: e.From, To: e.To}
	}
	return doc
}

func fromDocument(doc document) (diagram.Snapshot, error) {
	if doc.Version != Version {
		return diagram.Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, doc.Version)
	}
	s := diagram.Snapshot{
		Nodes: make([]diagram.NodeState, len(doc.Nodes)),
		Edges: make([]diagram.Edge, len(doc.Edges)),
	}
	for i, n := range doc.Nodes {
		s.Nodes[i] = diagram.NodeState{ID: n.ID, X: n.X, Y: n.Y, Text: n.Text}
	}
	for i, e := range doc.Edges {
		s.Edges[i] = diagram.Edge{From: e.From, To: e.To}
	}
	if err := s.Validate(); err != nil {
		return diagram.Snapshot{}, err
	}
	return s, nil
}

type jsonCodec struct{}

// JSON is the default, human-readable codec.
var JSON Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(s diagram.Snapshot) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(toDocument(s))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

func (jsonCodec) Decode(data []byte) (diagram.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return diagram.Snapshot{}, fmt.Errorf("%w: decode: %v", ErrCorrupt, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return diagram.Snapshot{}, fmt.Errorf("%w: trailing data after document", ErrCorrupt)
	}
	return fromDocument(doc)
}

type msgpackCodec struct{}

// MsgPack is a compact binary codec with the same schema as JSON.
var MsgPack Codec = msgpackCodec{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Encode(s diagram.Snapshot) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(toDocument(s))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

func (msgpackCodec) Decode(data []byte) (diagram.Snapshot, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	dec.DisallowUnknownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return diagram.Snapshot{}, fmt.Errorf("%w: decode: %v", ErrCorrupt, err)
	}
	if r.Len() > 0 {
		return diagram.Snapshot{}, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}
	return fromDocument(doc)
}

type compressed struct {
	inner Codec
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// Compressed wraps inner with zstd compression. The returned codec is safe
// for concurrent use.
func Compressed(inner Codec) Codec {
	// Both constructors only fail on invalid options.
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return &compressed{inner: inner, enc: enc, dec: dec}
}

func (c *compressed) Name() string { return c.inner.Name() + "+zstd" }

func (c *compressed) Encode(s diagram.Snapshot) ([]byte, error) {
	data, err := c.inner.Encode(s)
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(data, nil), nil
}

func (c *compressed) Decode(data []byte) (diagram.Snapshot, error) {
	raw, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return diagram.Snapshot{}, fmt.Errorf("%w: decompress: %v", ErrCorrupt, err)
	}
	return c.inner.Decode(raw)
}

// Names lists the codec names accepted by [Lookup].
func Names() []string { return []string{"json", "msgpack"} }

// Lookup returns the codec registered under name, optionally wrapped with
// [Compressed].
func Lookup(name string, compress bool) (Codec, error) {
	var c Codec
	switch name {
	case "json", "":
		c = JSON
	case "msgpack":
		c = MsgPack
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	if compress {
		c = Compressed(c)
	}
	return c, nil
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string, c Codec) (diagram.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return diagram.Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	s, err := c.Decode(data)
	if err != nil {
		return diagram.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteFile encodes s and writes it to path. JSON output is indented.
func WriteFile(path string, s diagram.Snapshot, c Codec) error {
	data, err := c.Encode(s)
	if err != nil {
		return err
	}
	if c.Name() == JSON.Name() {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err == nil {
			buf.WriteByte('\n')
			data = buf.Bytes()
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}
