// Package server implements the MCP (Model Context Protocol) server that
// exposes the radiograph contour pipeline as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - notifications/initialized: Client acknowledgment (no response)
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - xray_load: Load a radiograph and report its metadata
//   - xray_process: Run the pipeline, return contours and the overlay
//   - xray_stage: Return one intermediate image
//   - xray_panel: Return the 2x3 overview of all stages
//   - xray_save: Write every stage, the panel and contours.json to disk
//
// Every processing tool accepts optional overrides for the pipeline
// parameters (blur_kernel_size, adaptive_block_size, adaptive_constant,
// closing_kernel_size, highlight_color, retrieval, approximation,
// morph_border). Overrides are applied on top of the server's configuration
// and validated as a whole before anything runs.
//
// # Caching
//
// Decoded grayscale images are cached by path, and pipeline results are
// memoized per path and configuration, for the lifetime of the process.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: invalid arguments or pipeline parameters
//   - -32000: tool execution failure (unreadable image, write failure)
//   - -32601: unknown method
//   - -32700: unparseable request line
//
// The data field carries the Go error string.
//
// # Usage
//
//	srv := server.New(server.WithConfig(cfg), server.WithLogger(logger))
//	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
