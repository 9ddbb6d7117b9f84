package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/ironsheep/ocr-dataset-tools/internal/groundtruth"
	"github.com/ironsheep/ocr-dataset-tools/internal/imaging"
	"github.com/ironsheep/ocr-dataset-tools/internal/vocab"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "vocab_build", "image_dimensions").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
	// Ground truth
	case "dataset_label_stats":
		return s.handleDatasetLabelStats(args)

	// Images
	case "dataset_image_stats":
		return s.handleDatasetImageStats(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Vocabulary
	case "vocab_build":
		return s.handleVocabBuild(args)
	case "vocab_lookup":
		return s.handleVocabLookup(args)
	case "vocab_encode":
		return s.handleVocabEncode(args)
	case "vocab_decode":
		return s.handleVocabDecode(args)

	// Server
	case "cache_clear":
		return s.handleCacheClear(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// loadVocab returns the vocabulary at path. The parsed copy is reused until
// the file's modification time or size changes.
func (s *Server) loadVocab(path string) (*vocab.Vocabulary, error) {
	if path == "" {
		return nil, errors.New("vocab path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		delete(s.vocabs, path)
		return nil, fmt.Errorf("failed to stat vocabulary: %w", err)
	}
	if c, ok := s.vocabs[path]; ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
		return c.v, nil
	}
	v, err := vocab.Load(path)
	if err != nil {
		delete(s.vocabs, path)
		return nil, err
	}
	s.vocabs[path] = cachedVocab{v: v, modTime: info.ModTime(), size: info.Size()}
	return v, nil
}

// storeVocab caches v as the current contents of the file at path.
func (s *Server) storeVocab(path string, v *vocab.Vocabulary) {
	info, err := os.Stat(path)
	if err != nil {
		delete(s.vocabs, path)
		return
	}
	s.vocabs[path] = cachedVocab{v: v, modTime: info.ModTime(), size: info.Size()}
}

// === Ground Truth Handlers ===

type labelFilesArgs struct {
	LabelFiles []string `json:"label_files"`
}

func (a labelFilesArgs) validate() error {
	if len(a.LabelFiles) == 0 {
		return errors.New("label_files must name at least one file")
	}
	return nil
}

type charCountResult struct {
	Char      string `json:"char"`
	CodePoint int    `json:"code_point"`
	Count     int    `json:"count"`
}

type labelStatsResult struct {
	Files          []string                   `json:"files"`
	Labels         int                        `json:"labels"`
	MaxLabelLength int                        `json:"max_label_length"`
	DistinctChars  int                        `json:"distinct_chars"`
	TotalChars     int                        `json:"total_chars"`
	Counts         []charCountResult          `json:"counts"`
	Lengths        []groundtruth.LengthBucket `json:"lengths"`
}

func (s *Server) handleDatasetLabelStats(args json.RawMessage) (interface{}, error) {
	var a labelFilesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	counter := groundtruth.NewCounter()
	lengths := groundtruth.NewLengthHistogram()
	for _, path := range a.LabelFiles {
		err := groundtruth.ScanFile(path, func(rec groundtruth.Record) error {
			counter.Add(rec.Label)
			lengths.Add(rec.Label)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	res := &labelStatsResult{
		Files:          a.LabelFiles,
		Labels:         lengths.Labels(),
		MaxLabelLength: lengths.Max(),
		DistinctChars:  counter.Len(),
		TotalChars:     counter.Total(),
		Counts:         make([]charCountResult, 0, counter.Len()),
		Lengths:        lengths.Buckets(),
	}
	for _, e := range counter.Entries() {
		res.Counts = append(res.Counts, charCountResult{Char: string(e.Char), CodePoint: int(e.Char), Count: e.Count})
	}
	return res, nil
}

// === Image Handlers ===

type datasetImageStatsArgs struct {
	Dir         string `json:"dir"`
	Appearance  bool   `json:"appearance"`
	SkipInvalid bool   `json:"skip_invalid"`
}

func (s *Server) handleDatasetImageStats(args json.RawMessage) (interface{}, error) {
	var a datasetImageStatsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, errors.New("dir is required")
	}
	return imaging.ScanDir(context.Background(), a.Dir, imaging.ScanOptions{
		Appearance:  a.Appearance,
		SkipInvalid: a.SkipInvalid,
	})
}

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Vocabulary Handlers ===

type vocabBuildArgs struct {
	labelFilesArgs
	Output string `json:"output"`
}

type vocabEntry struct {
	Char string `json:"char"`
	ID   int    `json:"id"`
}

type vocabBuildResult struct {
	Size    int          `json:"size"`
	Entries []vocabEntry `json:"entries"`
	Written string       `json:"written,omitempty"`
}

func (s *Server) handleVocabBuild(args json.RawMessage) (interface{}, error) {
	var a vocabBuildArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	counter := groundtruth.NewCounter()
	for _, path := range a.LabelFiles {
		if err := counter.CountFile(path); err != nil {
			return nil, err
		}
	}
	v := vocab.Build(counter)

	res := &vocabBuildResult{Size: v.Len(), Entries: make([]vocabEntry, 0, v.Len())}
	for id, r := range v.Chars() {
		res.Entries = append(res.Entries, vocabEntry{Char: string(r), ID: id})
	}
	if a.Output != "" {
		if err := v.WriteFile(a.Output); err != nil {
			return nil, err
		}
		s.storeVocab(a.Output, v)
		res.Written = a.Output
	}
	return res, nil
}

type vocabLookupArgs struct {
	Vocab string `json:"vocab"`
	Char  string `json:"char"`
	ID    *int   `json:"id"`
}

type vocabLookupResult struct {
	Char  string `json:"char"`
	ID    int    `json:"id"`
	Found bool   `json:"found"`
}

func (s *Server) handleVocabLookup(args json.RawMessage) (interface{}, error) {
	var a vocabLookupArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if (a.Char == "") == (a.ID == nil) {
		return nil, errors.New("exactly one of char or id is required")
	}
	v, err := s.loadVocab(a.Vocab)
	if err != nil {
		return nil, err
	}

	if a.ID != nil {
		r, ok := v.Char(*a.ID)
		res := &vocabLookupResult{ID: *a.ID, Found: ok}
		if ok {
			res.Char = string(r)
		}
		return res, nil
	}

	if utf8.RuneCountInString(a.Char) != 1 {
		return nil, fmt.Errorf("char must be a single character, got %q", a.Char)
	}
	r, _ := utf8.DecodeRuneInString(a.Char)
	id, ok := v.ID(r)
	if !ok {
		id = -1
	}
	return &vocabLookupResult{Char: a.Char, ID: id, Found: ok}, nil
}

type vocabEncodeArgs struct {
	Vocab     string `json:"vocab"`
	Label     string `json:"label"`
	MaxLength int    `json:"max_length"`
}

type vocabEncodeResult struct {
	Label string `json:"label"`
	IDs   []int  `json:"ids"`
}

func (s *Server) handleVocabEncode(args json.RawMessage) (interface{}, error) {
	var a vocabEncodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	v, err := s.loadVocab(a.Vocab)
	if err != nil {
		return nil, err
	}

	label := groundtruth.NormalizeLabel(a.Label)
	if a.MaxLength == 0 {
		a.MaxLength = groundtruth.LabelLength(label)
	}
	ids, err := v.Encode(label, a.MaxLength)
	if err != nil {
		return nil, err
	}
	return &vocabEncodeResult{Label: label, IDs: ids}, nil
}

type vocabDecodeArgs struct {
	Vocab string `json:"vocab"`
	IDs   []int  `json:"ids"`
}

type vocabDecodeResult struct {
	Label string `json:"label"`
}

func (s *Server) handleVocabDecode(args json.RawMessage) (interface{}, error) {
	var a vocabDecodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	v, err := s.loadVocab(a.Vocab)
	if err != nil {
		return nil, err
	}
	label, err := v.Decode(a.IDs)
	if err != nil {
		return nil, err
	}
	return &vocabDecodeResult{Label: label}, nil
}

// === Server Handlers ===

type cacheClearResult struct {
	Images       int `json:"images"`
	Vocabularies int `json:"vocabularies"`
}

func (s *Server) handleCacheClear(args json.RawMessage) (interface{}, error) {
	if len(args) > 0 {
		var a struct{}
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	res := &cacheClearResult{Images: s.cache.Len(), Vocabularies: len(s.vocabs)}
	s.cache.Clear()
	s.vocabs = make(map[string]cachedVocab)
	return res, nil
}
