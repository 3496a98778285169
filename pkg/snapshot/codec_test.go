package snapshot

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
)

func sample() diagram.Snapshot {
	return diagram.Snapshot{
		Nodes: []diagram.NodeState{
			{ID: "node-1", X: 50, Y: 50, Text: "Root"},
			{ID: "node-2", X: 12.375, Y: 0.1, Text: ""},
			{ID: "node-3", X: 699.9999, Y: 559.5, Text: "日本語 ✓ \"quoted\"\n"},
			{ID: "ключ-😀", X: 1e-9, Y: 0, Text: "<tab>\t&amp; \\ \u2028 \U0001F600"},
		},
		Edges: []diagram.Edge{{From: "node-1", To: "node-2"}, {From: "node-3", To: "node-1"}},
	}
}

func codecs() []Codec {
	return []Codec{JSON, MsgPack, Compressed(JSON), Compressed(MsgPack)}
}

func TestRoundTrip(t *testing.T) {
	states := map[string]diagram.Snapshot{
		"empty":  {Nodes: []diagram.NodeState{}, Edges: []diagram.Edge{}},
		"sample": sample(),
		"parallel": {
			Nodes: []diagram.NodeState{{ID: "a"}, {ID: "b"}},
			Edges: []diagram.Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
		},
	}

	for _, c := range codecs() {
		for name, s := range states {
			t.Run(c.Name()+"/"+name, func(t *testing.T) {
				data, err := c.Encode(s)
				if err != nil {
					t.Fatalf("Encode: %v", err)
				}
				got, err := c.Decode(data)
				if err != nil {
					t.Fatalf("Decode: %v", err)
				}
				if !got.Equal(s) {
					t.Errorf("round trip = %+v, want %+v", got, s)
				}
				if got.Nodes == nil || got.Edges == nil {
					t.Error("decoded slices should be non-nil")
				}
			})
		}
	}
}

func TestEncodeRejectsMalformedUTF8(t *testing.T) {
	states := map[string]diagram.Snapshot{
		"id": {
			Nodes: []diagram.NodeState{{ID: "a\xff"}, {ID: "a\xfe"}},
		},
		"label": {
			Nodes: []diagram.NodeState{{ID: "a", Text: "lbl\xfe"}},
		},
	}

	for _, c := range codecs() {
		for name, s := range states {
			t.Run(c.Name()+"/"+name, func(t *testing.T) {
				data, err := c.Encode(s)
				if !errors.Is(err, ErrCorrupt) {
					t.Errorf("Encode error = %v, want ErrCorrupt", err)
				}
				if data != nil {
					t.Errorf("Encode returned %d bytes for a rejected snapshot", len(data))
				}
			})
		}
	}
}

func TestDecodeRejectsMalformedUTF8(t *testing.T) {
	doc := document{
		Version: Version,
		Nodes:   []node{{ID: "a\xff", Text: "x"}},
		Edges:   []edge{},
	}
	data, err := msgpack.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := MsgPack.Decode(data); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Decode error = %v, want ErrCorrupt", err)
	}
}

func TestJSONFormat(t *testing.T) {
	s := diagram.Snapshot{
		Nodes: []diagram.NodeState{{ID: "a", X: 1.5, Y: 2, Text: "A"}},
		Edges: []diagram.Edge{},
	}
	data, err := JSON.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"version":1,"nodes":[{"id":"a","x":1.5,"y":2,"text":"A"}],"edges":[]}`
	if string(data) != want {
		t.Errorf("Encode = %s, want %s", data, want)
	}
}

func TestDecodeEdgeBeforeLaterNode(t *testing.T) {
	in := `{"version":1,"nodes":[{"id":"a","x":0,"y":0,"text":""},{"id":"b","x":0,"y":0,"text":""}],"edges":[{"from":"b","to":"a"}]}`
	s, err := JSON.Decode([]byte(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.Edges) != 1 {
		t.Errorf("edges = %v", s.Edges)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", `{"version":1,"nodes":[`},
		{"not an object", `[1,2,3]`},
		{"empty input", ``},
		{"missing version", `{"nodes":[],"edges":[]}`},
		{"future version", `{"version":2,"nodes":[],"edges":[]}`},
		{"unknown field", `{"version":1,"nodes":[],"edges":[],"extra":true}`},
		{"trailing data", `{"version":1,"nodes":[],"edges":[]} {}`},
		{"empty id", `{"version":1,"nodes":[{"id":"","x":0,"y":0,"text":""}],"edges":[]}`},
		{"duplicate id", `{"version":1,"nodes":[{"id":"a","x":0,"y":0,"text":""},{"id":"a","x":1,"y":1,"text":""}],"edges":[]}`},
		{"dangling edge", `{"version":1,"nodes":[{"id":"a","x":0,"y":0,"text":""}],"edges":[{"from":"a","to":"ghost"}]}`},
		{"self loop", `{"version":1,"nodes":[{"id":"a","x":0,"y":0,"text":""}],"edges":[{"from":"a","to":"a"}]}`},
		{"string coordinate", `{"version":1,"nodes":[{"id":"a","x":"0","y":0,"text":""}],"edges":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JSON.Decode([]byte(tt.in))
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("Decode error = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestBinaryDecodeCorrupt(t *testing.T) {
	data, err := MsgPack.Encode(sample())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	tests := []struct {
		name  string
		codec Codec
		in    []byte
	}{
		{"msgpack truncated", MsgPack, data[:len(data)/2]},
		{"msgpack trailing", MsgPack, append(append([]byte{}, data...), 0xc0)},
		{"msgpack garbage", MsgPack, []byte("not msgpack")},
		{"zstd garbage", Compressed(JSON), []byte("definitely not zstd")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.codec.Decode(tt.in); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Decode error = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestCompressedShrinksLargeSnapshots(t *testing.T) {
	var s diagram.Snapshot
	for i := range 200 {
		id := "node-" + strings.Repeat("x", i%7) + string(rune('a'+i%26)) + strings.Repeat("0", i/26)
		s.Nodes = append(s.Nodes, diagram.NodeState{ID: id, X: 50, Y: 50, Text: "same label everywhere"})
	}

	plain, err := JSON.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	packed, err := Compressed(JSON).Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(packed) >= len(plain) {
		t.Errorf("compressed size %d >= plain size %d", len(packed), len(plain))
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		compress bool
		want     string
		wantErr  bool
	}{
		{"json", false, "json", false},
		{"", false, "json", false},
		{"msgpack", false, "msgpack", false},
		{"msgpack", true, "msgpack+zstd", false},
		{"yaml", false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup(tt.name, tt.compress)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCodec) {
					t.Errorf("Lookup(%q) error = %v, want ErrUnknownCodec", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.name, err)
			}
			if c.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", c.Name(), tt.want)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	if err := WriteFile(path, sample(), JSON); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path, JSON)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !got.Equal(sample()) {
		t.Errorf("ReadFile = %+v", got)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"), JSON); err == nil {
		t.Error("ReadFile on missing file should fail")
	}
}
