// Package server exposes one editing session over a JSON HTTP API for a
// browser front end.
//
// # Routes
//
// All API routes live under /api:
//
//	GET    /api/view                 current view (nodes, edges, selection, history)
//	GET    /api/history              undo and redo availability
//	POST   /api/nodes                add a node
//	PATCH  /api/nodes/{id}           edit a label and/or move a node
//	DELETE /api/nodes/{id}           delete a node and its edges
//	POST   /api/selection            toggle a node's selection
//	DELETE /api/selection            clear the selection
//	POST   /api/selection/connect    connect the two selected nodes
//	POST   /api/selection/delete     delete the selected nodes
//	DELETE /api/edges/{from}/{to}    remove one edge
//	POST   /api/undo                 undo
//	POST   /api/redo                 redo
//	POST   /api/diagram              start a new diagram
//	GET    /api/snapshot             download the diagram as JSON
//	PUT    /api/snapshot             replace the diagram with a JSON snapshot
//	GET    /api/export/{format}      render png, svg, dot, graphviz or json
//
// GET /health reports liveness.
//
// # Errors
//
// Failures are written as {"code": ..., "message": ...} with the status
// chosen from the error code: DUPLICATE_ID is 409, UNKNOWN_NODE and
// UNKNOWN_EDGE are 404, INVALID_SELECTION and INVALID_INPUT are 422 and
// CORRUPT_SNAPSHOT is 400.
//
// # Concurrency
//
// An [editor.Session] is single-threaded. The server serializes every
// session call behind one mutex; exports render from a [editor.View] taken
// under the lock and run outside it.
package server
