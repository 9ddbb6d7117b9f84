package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func labelFilesProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Absolute paths of ground-truth files with one image,\"label\" record per line",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Ground truth
		{
			Name:        "dataset_label_stats",
			Description: "Count the characters used by the labels of one or more ground-truth files. Returns per-character counts in first-seen order, the longest label and a label length histogram.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"label_files": labelFilesProp(),
				},
				"required": []string{"label_files"},
			},
		},

		// Images
		{
			Name:        "dataset_image_stats",
			Description: "Decode every image in a directory and report minimum and maximum height, width and width/height ratio. Optionally measures luminance, contrast and sharpness.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": stringProp("Absolute path to the image directory"),
					"appearance": map[string]interface{}{
						"type":        "boolean",
						"description": "Also measure luminance, contrast and sharpness. Default false",
						"default":     false,
					},
					"skip_invalid": map[string]interface{}{
						"type":        "boolean",
						"description": "Report undecodable files instead of failing. Default false",
						"default":     false,
					},
				},
				"required": []string{"dir"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width, height, width/height ratio and format of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": stringProp("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Vocabulary
		{
			Name:        "vocab_build",
			Description: "Build a character vocabulary from ground-truth files. Ids 0, 1 and 2 are reserved for padding, start and end of sequence; label characters follow in first-seen order. Optionally writes the vocabulary file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"label_files": labelFilesProp(),
					"output":      stringProp("Optional absolute path to write the vocabulary to, one \"character<TAB>id\" line per entry"),
				},
				"required": []string{"label_files"},
			},
		},
		{
			Name:        "vocab_lookup",
			Description: "Look up the id of a character, or the character of an id, in a vocabulary file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"vocab": stringProp("Absolute path to the vocabulary file"),
					"char":  stringProp("A single character to look up"),
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "An id to look up",
					},
				},
				"required": []string{"vocab"},
			},
		},
		{
			Name:        "vocab_encode",
			Description: "Encode a label as start id, character ids, end id, then padding up to max_length+2 ids.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"vocab": stringProp("Absolute path to the vocabulary file"),
					"label": stringProp("Label text to encode"),
					"max_length": map[string]interface{}{
						"type":        "integer",
						"description": "Longest label length the sequence must hold. Defaults to the label's own length",
					},
				},
				"required": []string{"vocab", "label"},
			},
		},
		{
			Name:        "vocab_decode",
			Description: "Decode a sequence of ids back to a label. Stops at the end id and skips start and padding ids.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"vocab": stringProp("Absolute path to the vocabulary file"),
					"ids": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"description": "Ids to decode",
					},
				},
				"required": []string{"vocab", "ids"},
			},
		},

		// Server
		{
			Name:        "cache_clear",
			Description: "Drop every cached image and vocabulary. Returns how many of each were cached.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
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
