package server

import (
	"github.com/ironsheep/xray-contours/internal/imaging"
	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema shared by every tool's "path" argument.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the radiograph image file (PNG, JPEG, GIF, BMP or TIFF)",
	}
}

// overrideProperties describes the optional pipeline parameter overrides
// accepted by every processing tool.
func overrideProperties() map[string]interface{} {
	return map[string]interface{}{
		"blur_kernel_size": map[string]interface{}{
			"type":        "integer",
			"description": "Gaussian blur kernel size, odd and positive. Default 5",
		},
		"adaptive_block_size": map[string]interface{}{
			"type":        "integer",
			"description": "Adaptive threshold neighbourhood size, odd and positive. Default 11",
		},
		"adaptive_constant": map[string]interface{}{
			"type":        "integer",
			"description": "Constant subtracted from the neighbourhood mean. Default 2",
		},
		"closing_kernel_size": map[string]interface{}{
			"type":        "integer",
			"description": "Morphological closing element size, odd and positive. Default 3",
		},
		"highlight_color": map[string]interface{}{
			"type":        "string",
			"description": "Contour color as a name or hex string. Default \"#ff0000\"",
		},
		"retrieval": map[string]interface{}{
			"type":        "string",
			"enum":        []string{pipeline.RetrieveAll.String(), pipeline.RetrieveExternal.String()},
			"description": "Which outer borders to report: every component or only those not nested in a hole. Default \"all\"",
		},
		"approximation": map[string]interface{}{
			"type":        "string",
			"enum":        []string{pipeline.ApproxNone.String(), pipeline.ApproxSimple.String()},
			"description": "\"none\" keeps every boundary pixel; \"simple\" keeps only the ends of straight runs. Default \"none\"",
		},
		"morph_border": map[string]interface{}{
			"type":        "string",
			"enum":        []string{pipeline.BorderBackground.String(), pipeline.BorderIgnore.String()},
			"description": "How closing treats pixels outside the image. Default \"background\"",
		},
	}
}

// schema builds an object schema from the shared path and override
// properties plus any tool-specific ones.
func schema(extra map[string]interface{}, required ...string) map[string]interface{} {
	props := overrideProperties()
	props["path"] = pathProperty()
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"path"}, required...),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "xray_load",
			Description: "Load a radiograph and return its dimensions, format, bit depth and file size. The decoded grayscale image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "xray_process",
			Description: "Run the contour pipeline (blur, equalize, adaptive threshold, closing, border following) and return the contour count, the contour point lists and the overlay image as base64 PNG.",
			InputSchema: schema(map[string]interface{}{
				"include_contours": map[string]interface{}{
					"type":        "boolean",
					"description": "Include every contour's point list. Default true",
					"default":     true,
				},
				"include_overlay": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the overlay image. Default true",
					"default":     true,
				},
			}),
		},
		{
			Name:        "xray_stage",
			Description: "Return one intermediate image of the pipeline as base64 PNG. Useful for checking how each step transforms the radiograph.",
			InputSchema: schema(map[string]interface{}{
				"stage": map[string]interface{}{
					"type":        "string",
					"enum":        append(append([]string{}, pipeline.StageNames...), pipeline.StageOverlay),
					"description": "Stage to return",
				},
			}, "stage"),
		},
		{
			Name:        "xray_panel",
			Description: "Return a 2x3 overview of the original, blurred, equalized, thresholded and closed images plus the contour overlay as base64 PNG.",
			InputSchema: schema(map[string]interface{}{
				"tile_width": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum width of each tile in pixels; wider images are downscaled. 0 keeps full size. Default 400",
					"default":     imaging.DefaultTileWidth,
				},
			}),
		},
		{
			Name:        "xray_save",
			Description: "Run the pipeline and write every stage, the overlay, the overview panel and contours.json into a directory.",
			InputSchema: schema(map[string]interface{}{
				"output_dir": map[string]interface{}{
					"type":        "string",
					"description": "Directory to write into; created if missing. Defaults to the server's configured output directory",
				},
			}),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
