package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/ironsheep/xray-contours/internal/imaging"
	"github.com/ironsheep/xray-contours/internal/logging"
	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// Server handles MCP protocol communication
type Server struct {
	cache     *imaging.ImageCache
	cfg       pipeline.Config
	outputDir string
	version   string
	log       zerolog.Logger

	maxResults int
	results    *lru.Cache[resultKey, *pipeline.Result]
}

// DefaultMaxResults is the number of pipeline results kept for reuse by
// later tool calls.
const DefaultMaxResults = 16

// resultKey identifies one pipeline run. pipeline.Config is comparable.
type resultKey struct {
	path string
	cfg  pipeline.Config
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the pipeline parameters used when a tool call does not
// override them.
func WithConfig(cfg pipeline.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithOutputDir sets the default directory for xray_save.
func WithOutputDir(dir string) Option {
	return func(s *Server) { s.outputDir = dir }
}

// WithLogger sets the logger. Logs must not go to the protocol stream.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = logging.Component(l, "server") }
}

// WithMaxResults bounds the number of memoized pipeline results. The least
// recently used result is dropped first. Values below 1 select 1.
func WithMaxResults(n int) Option {
	return func(s *Server) { s.maxResults = max(n, 1) }
}

// WithVersion sets the version reported by initialize.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a new MCP server instance
func New(opts ...Option) *Server {
	s := &Server{
		cache:     imaging.NewImageCache(),
		cfg:       pipeline.DefaultConfig(),
		outputDir: "output",
		version:   "dev",
		log:       zerolog.Nop(),

		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Only fails for a non-positive size.
	s.results, _ = lru.New[resultKey, *pipeline.Result](s.maxResults)
	return s
}

// Serve reads one JSON-RPC request per line from r and writes responses to
// w. It returns when r is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	s.log.Info().Int("tools", len(GetToolDefinitions())).Msg("serving")
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn().Err(err).Msg("failed to parse request")
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				s.log.Error().Err(err).Msg("failed to encode response")
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error().Err(err).Msg("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	s.log.Info().Msg("input closed")
	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.Debug().Str("method", req.Method).Interface("id", req.ID).Msg("request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "xray-contours",
				"version": s.version,
			},
		},
	}
}
