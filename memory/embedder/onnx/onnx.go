//go:build onnx

// Package onnx embeds text locally with a sentence-transformer model (e.g.
// all-MiniLM-L6-v2) through ONNX Runtime. It needs the onnxruntime shared
// library plus exported model and tokenizer files, so it is gated behind the
// "onnx" build tag.
package onnx

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	ort "github.com/yalue/onnxruntime_go"
)

// Config configures the ONNX embedder.
type Config struct {
	// ModelPath is the path to the exported ONNX model file. Required.
	ModelPath string

	// TokenizerPath is the path to the HuggingFace tokenizer.json
	// carrying the WordPiece vocabulary. Required.
	TokenizerPath string

	// LibraryPath overrides the onnxruntime shared library location.
	// Empty uses the onnxruntime_go default.
	LibraryPath string

	// Dimensions is the embedding size; defaults to 384 (MiniLM).
	Dimensions int

	// MaxSequenceLength caps tokenized input; defaults to 128.
	MaxSequenceLength int
}

// Embedder runs the model and mean-pools token states into unit vectors.
type Embedder struct {
	session   *ort.DynamicAdvancedSession
	tokenizer *wordPieceTokenizer
	dims      int
	maxSeq    int
}

// New loads the tokenizer, initializes the runtime, and opens a session.
// Call Close to release the session.
func New(cfg Config) (*Embedder, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("ModelPath is required")
	}
	if cfg.TokenizerPath == "" {
		return nil, fmt.Errorf("TokenizerPath is required")
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 384
	}
	if cfg.MaxSequenceLength == 0 {
		cfg.MaxSequenceLength = 128
	}

	tokenizer, err := loadWordPieceTokenizer(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Embedder{
		session:   session,
		tokenizer: tokenizer,
		dims:      cfg.Dimensions,
		maxSeq:    cfg.MaxSequenceLength,
	}, nil
}

// Embed converts text to a unit-norm embedding vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := e.tokenizer.encode(text, e.maxSeq)
	seqLen := len(ids)

	inputIDs := make([]int64, e.maxSeq)
	attentionMask := make([]int64, e.maxSeq)
	tokenTypeIDs := make([]int64, e.maxSeq)
	for i, id := range ids {
		inputIDs[i] = id
		attentionMask[i] = 1
	}

	shape := ort.NewShape(1, int64(e.maxSeq))
	tensors := make([]ort.Value, 0, 3)
	for _, data := range [][]int64{inputIDs, attentionMask, tokenTypeIDs} {
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			for _, prev := range tensors {
				prev.Destroy()
			}
			return nil, fmt.Errorf("create input tensor: %w", err)
		}
		tensors = append(tensors, t)
	}
	defer func() {
		for _, t := range tensors {
			t.Destroy()
		}
	}()

	outputs := []ort.Value{nil}
	if err := e.session.Run(tensors, outputs); err != nil {
		return nil, fmt.Errorf("run inference: %w", err)
	}
	defer outputs[0].Destroy()

	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	return e.meanPool(hidden, seqLen)
}

// meanPool averages the hidden states of attended tokens and normalizes the
// result to unit length.
func (e *Embedder) meanPool(hidden *ort.Tensor[float32], seqLen int) ([]float32, error) {
	shape := hidden.GetShape()
	if len(shape) != 3 || shape[0] != 1 {
		return nil, fmt.Errorf("unexpected output shape %v", shape)
	}
	if int(shape[2]) != e.dims {
		return nil, fmt.Errorf("hidden size mismatch: got %d, want %d", shape[2], e.dims)
	}

	data := hidden.GetData()
	pooled := make([]float32, e.dims)
	for tok := 0; tok < seqLen; tok++ {
		offset := tok * e.dims
		for j := 0; j < e.dims; j++ {
			pooled[j] += data[offset+j]
		}
	}
	if seqLen > 0 {
		inv := 1.0 / float32(seqLen)
		for j := range pooled {
			pooled[j] *= inv
		}
	}

	var sum float64
	for _, v := range pooled {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		norm := float32(math.Sqrt(sum))
		for j := range pooled {
			pooled[j] /= norm
		}
	}
	return pooled, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// Close releases the ONNX session.
func (e *Embedder) Close() error {
	if e.session != nil {
		return e.session.Destroy()
	}
	return nil
}

// BERT special token IDs shared by the MiniLM family.
const (
	tokenUNK int64 = 100
	tokenCLS int64 = 101
	tokenSEP int64 = 102
)

type wordPieceTokenizer struct {
	vocab map[string]int64
}

func loadWordPieceTokenizer(path string) (*wordPieceTokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Model struct {
			Vocab map[string]int64 `json:"vocab"`
		} `json:"model"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Model.Vocab) == 0 {
		return nil, fmt.Errorf("tokenizer %s has no vocabulary", path)
	}
	return &wordPieceTokenizer{vocab: raw.Model.Vocab}, nil
}

// encode lowercases, splits on whitespace, and greedily matches the longest
// vocabulary prefixes (WordPiece). Output is [CLS] ids... [SEP], truncated
// to maxLen.
func (t *wordPieceTokenizer) encode(text string, maxLen int) []int64 {
	ids := []int64{tokenCLS}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if word == "" {
			continue
		}
		for _, id := range t.wordPiece(word) {
			if len(ids) == maxLen-1 {
				break
			}
			ids = append(ids, id)
		}
	}
	return append(ids, tokenSEP)
}

func (t *wordPieceTokenizer) wordPiece(word string) []int64 {
	var ids []int64
	start := 0
	for start < len(word) {
		end := len(word)
		matched := false
		for end > start {
			piece := word[start:end]
			if start > 0 {
				piece = "##" + piece
			}
			if id, ok := t.vocab[piece]; ok {
				ids = append(ids, id)
				start = end
				matched = true
				break
			}
			end--
		}
		if !matched {
			ids = append(ids, tokenUNK)
			start++
		}
	}
	return ids
}
