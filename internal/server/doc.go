// Package server implements an MCP (Model Context Protocol) server that
// exposes the dataset tools to MCP clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Ground truth:
//   - dataset_label_stats: Character counts and label lengths of label files
//
// Images:
//   - dataset_image_stats: Size and ratio extrema of a directory of images
//   - image_dimensions: Size, ratio and format of one image
//
// Vocabulary:
//   - vocab_build: Build (and optionally write) a vocabulary from label files
//   - vocab_lookup: Character to id or id to character
//   - vocab_encode: Label to a padded id sequence
//   - vocab_decode: Id sequence back to a label
//
// Server:
//   - cache_clear: Drop every cached image and vocabulary
//
// # Caching
//
// Decoded images and parsed vocabulary files are cached by path. An entry is
// reloaded when the file's modification time or size changes, so a vocabulary
// rewritten by an analysis run is picked up on the next call. A vocabulary
// written by vocab_build replaces any cached copy of the same path, and
// cache_clear drops everything.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
