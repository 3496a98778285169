// Package snapshot serializes diagram snapshots for the undo history and
// for import and export.
//
// # Formats
//
// [JSON] is the default codec. It writes a versioned document:
//
//	{
//	  "version": 1,
//	  "nodes": [{"id": "node-1", "x": 50, "y": 50, "text": "Idea"}],
//	  "edges": [{"from": "node-1", "to": "node-2"}]
//	}
//
// [MsgPack] writes the same schema in binary. [Compressed] wraps either
// codec with zstd framing, which pays off for long histories of large
// diagrams.
//
// # Decoding
//
// Decoding is strict. Every node is read before any edge is checked, so an
// edge may name a node that appears later in the list. The following all
// fail with an error wrapping [ErrCorrupt]:
//   - Malformed or truncated input, unknown fields, trailing data
//   - A missing or unsupported version
//   - Empty or duplicate node ids, non-finite coordinates
//   - Self loops and edges naming a node that is not in the document
//
// A decoded snapshot always has non-nil Nodes and Edges slices.
package snapshot
