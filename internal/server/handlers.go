package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/xray-contours/internal/imaging"
	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "xray_load", "xray_process").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInvalidArguments marks tool failures caused by the caller's arguments
// rather than by processing.
var errInvalidArguments = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return a JSON-RPC error response with code -32602; all
// other tool execution errors use -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool failed")
		if errors.Is(err, errInvalidArguments) || errors.Is(err, pipeline.ErrInvalidParameter) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug().Str("tool", params.Name).Dur("elapsed", time.Since(start)).Msg("tool complete")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "xray_load":
		return s.handleLoad(args)
	case "xray_process":
		return s.handleProcess(args)
	case "xray_stage":
		return s.handleStage(args)
	case "xray_panel":
		return s.handlePanel(args)
	case "xray_save":
		return s.handleSave(args)
	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArguments, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// An empty data string is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments into dst and checks the path.
func decodeArgs(args json.RawMessage, dst interface{ pathArg() string }) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing arguments", errInvalidArguments)
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	if dst.pathArg() == "" {
		return fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	return nil
}

// pipelineOverrides holds the optional parameter overrides shared by all
// processing tools. Unset fields keep the server's configuration.
type pipelineOverrides struct {
	BlurKernelSize    *int   `json:"blur_kernel_size"`
	AdaptiveBlockSize *int   `json:"adaptive_block_size"`
	AdaptiveConstant  *int   `json:"adaptive_constant"`
	ClosingKernelSize *int   `json:"closing_kernel_size"`
	HighlightColor    string `json:"highlight_color"`
	Retrieval         string `json:"retrieval"`
	Approximation     string `json:"approximation"`
	MorphBorder       string `json:"morph_border"`
}

// apply returns base with the overrides applied and validated.
func (o pipelineOverrides) apply(base pipeline.Config) (pipeline.Config, error) {
	cfg := base
	if o.BlurKernelSize != nil {
		cfg.BlurKernelSize = *o.BlurKernelSize
	}
	if o.AdaptiveBlockSize != nil {
		cfg.AdaptiveBlockSize = *o.AdaptiveBlockSize
	}
	if o.AdaptiveConstant != nil {
		cfg.AdaptiveConstant = *o.AdaptiveConstant
	}
	if o.ClosingKernelSize != nil {
		cfg.ClosingKernelSize = *o.ClosingKernelSize
	}
	if o.HighlightColor != "" {
		c, err := imaging.ParseColor(o.HighlightColor)
		if err != nil {
			return cfg, err
		}
		cfg.HighlightColor = c
	}
	if o.Retrieval != "" {
		m, err := pipeline.ParseRetrievalMode(o.Retrieval)
		if err != nil {
			return cfg, err
		}
		cfg.Retrieval = m
	}
	if o.Approximation != "" {
		a, err := pipeline.ParseApproximation(o.Approximation)
		if err != nil {
			return cfg, err
		}
		cfg.Approximation = a
	}
	if o.MorphBorder != "" {
		b, err := pipeline.ParseMorphBorder(o.MorphBorder)
		if err != nil {
			return cfg, err
		}
		cfg.MorphBorder = b
	}
	return cfg, cfg.Validate()
}

// process loads path and runs the pipeline with cfg. Results are memoized
// per path and configuration.
func (s *Server) process(path string, cfg pipeline.Config) (*pipeline.Result, error) {
	key := resultKey{path: path, cfg: cfg}

	if res, ok := s.results.Get(key); ok {
		return res, nil
	}

	src, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(cfg, pipeline.WithLogger(s.log))
	if err != nil {
		return nil, err
	}
	res, err := p.Run(src)
	if err != nil {
		return nil, err
	}

	if s.results.Add(key, res) {
		s.log.Debug().Str("path", path).Int("kept", s.results.Len()).Msg("evicted oldest result")
	}
	return res, nil
}

// === Image Information Handler ===

type loadArgs struct {
	Path string `json:"path"`
}

func (a *loadArgs) pathArg() string { return a.Path }

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Pipeline Handlers ===

// ProcessResult is returned by xray_process.
type ProcessResult struct {
	Path         string                `json:"path"`
	Width        int                   `json:"width"`
	Height       int                   `json:"height"`
	Config       pipeline.Config       `json:"config"`
	ContourCount int                   `json:"contour_count"`
	Contours     []pipeline.Contour    `json:"contours,omitempty"`
	Overlay      *imaging.EncodedImage `json:"overlay,omitempty"`
}

type processArgs struct {
	Path            string `json:"path"`
	IncludeContours *bool  `json:"include_contours"`
	IncludeOverlay  *bool  `json:"include_overlay"`
	pipelineOverrides
}

func (a *processArgs) pathArg() string { return a.Path }

func (s *Server) handleProcess(args json.RawMessage) (interface{}, error) {
	var a processArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.apply(s.cfg)
	if err != nil {
		return nil, err
	}
	res, err := s.process(a.Path, cfg)
	if err != nil {
		return nil, err
	}

	out := &ProcessResult{
		Path:         a.Path,
		Width:        res.Original.Width,
		Height:       res.Original.Height,
		Config:       cfg,
		ContourCount: len(res.Contours),
	}
	if a.IncludeContours == nil || *a.IncludeContours {
		out.Contours = res.Contours
	}
	if a.IncludeOverlay == nil || *a.IncludeOverlay {
		if out.Overlay, err = imaging.EncodeColor(res.Overlay); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// StageResult is returned by xray_stage.
type StageResult struct {
	Stage string `json:"stage"`
	*imaging.EncodedImage
}

type stageArgs struct {
	Path  string `json:"path"`
	Stage string `json:"stage"`
	pipelineOverrides
}

func (a *stageArgs) pathArg() string { return a.Path }

func (s *Server) handleStage(args json.RawMessage) (interface{}, error) {
	var a stageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if !validStage(a.Stage) {
		return nil, fmt.Errorf("%w: unknown stage %q", errInvalidArguments, a.Stage)
	}
	cfg, err := a.apply(s.cfg)
	if err != nil {
		return nil, err
	}
	res, err := s.process(a.Path, cfg)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodeStage(res, a.Stage)
	if err != nil {
		return nil, err
	}
	return &StageResult{Stage: a.Stage, EncodedImage: enc}, nil
}

func validStage(name string) bool {
	if name == pipeline.StageOverlay {
		return true
	}
	for _, n := range pipeline.StageNames {
		if n == name {
			return true
		}
	}
	return false
}

type panelArgs struct {
	Path      string `json:"path"`
	TileWidth *int   `json:"tile_width"`
	pipelineOverrides
}

func (a *panelArgs) pathArg() string { return a.Path }

func (s *Server) handlePanel(args json.RawMessage) (interface{}, error) {
	var a panelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	tileWidth := imaging.DefaultTileWidth
	if a.TileWidth != nil {
		tileWidth = *a.TileWidth
	}
	cfg, err := a.apply(s.cfg)
	if err != nil {
		return nil, err
	}
	res, err := s.process(a.Path, cfg)
	if err != nil {
		return nil, err
	}
	panel, err := imaging.Panel(res, tileWidth)
	if err != nil {
		return nil, err
	}
	return imaging.Encode(panel)
}

type saveArgs struct {
	Path      string `json:"path"`
	OutputDir string `json:"output_dir"`
	pipelineOverrides
}

func (a *saveArgs) pathArg() string { return a.Path }

func (s *Server) handleSave(args json.RawMessage) (interface{}, error) {
	var a saveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		a.OutputDir = s.outputDir
	}
	cfg, err := a.apply(s.cfg)
	if err != nil {
		return nil, err
	}
	res, err := s.process(a.Path, cfg)
	if err != nil {
		return nil, err
	}
	return imaging.SaveResult(a.OutputDir, res, cfg, a.Path)
}
