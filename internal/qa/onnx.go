//go:build cgo
// +build cgo

package qa

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNX graph tensor names of SQuAD exports.
const (
	inputIDsName      = "input_ids"
	attentionMaskName = "attention_mask"
	tokenTypeIDsName  = "token_type_ids"
	startLogitsName   = "start_logits"
	endLogitsName     = "end_logits"
)

// ONNXEngine runs an extractive QA model with ONNX Runtime. It requires CGO and the
// onnxruntime shared library. Inference runs one feature at a time through a single
// session; mu serializes callers.
type ONNXEngine struct {
	name            string
	tokenizer       *Tokenizer
	window          WindowOptions
	maxAnswerTokens int

	session             *ort.AdvancedSession
	inputIDsTensor      *ort.Tensor[int64]
	attentionMaskTensor *ort.Tensor[int64]
	tokenTypeIDsTensor  *ort.Tensor[int64]
	startLogitsTensor   *ort.Tensor[float32]
	endLogitsTensor     *ort.Tensor[float32]
	mu                  sync.Mutex
}

// NewONNXEngine loads the model and vocabulary named by opts. Any failure is returned as
// a *ModelLoadError.
func NewONNXEngine(opts Options) (*ONNXEngine, error) {
	engine, err := newONNXEngine(opts)
	if err != nil {
		return nil, &ModelLoadError{Model: opts.Name, Err: err}
	}
	return engine, nil
}

func newONNXEngine(opts Options) (*ONNXEngine, error) {
	if opts.Window.MaxSeqLength <= 0 {
		opts.Window = DefaultWindowOptions()
	}
	vocab, err := LoadVocab(opts.VocabPath)
	if err != nil {
		return nil, err
	}
	tokenizer, err := NewTokenizer(vocab, opts.LowerCase)
	if err != nil {
		return nil, err
	}

	if !ort.IsInitialized() {
		if opts.SharedLibraryPath != "" {
			ort.SetSharedLibraryPath(opts.SharedLibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
		}
	}

	seqLen := int64(opts.Window.MaxSeqLength)
	e := &ONNXEngine{
		name:            opts.Name,
		tokenizer:       tokenizer,
		window:          opts.Window,
		maxAnswerTokens: opts.MaxAnswerTokens,
	}
	shape := ort.NewShape(1, seqLen)
	if e.inputIDsTensor, err = ort.NewTensor(shape, make([]int64, seqLen)); err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	if e.attentionMaskTensor, err = ort.NewTensor(shape, make([]int64, seqLen)); err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	if e.startLogitsTensor, err = ort.NewTensor(shape, make([]float32, seqLen)); err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create start_logits tensor: %w", err)
	}
	if e.endLogitsTensor, err = ort.NewTensor(shape, make([]float32, seqLen)); err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create end_logits tensor: %w", err)
	}

	inputNames := []string{inputIDsName, attentionMaskName}
	inputs := []ort.ArbitraryTensor{e.inputIDsTensor, e.attentionMaskTensor}
	if opts.UseTokenTypeIDs {
		if e.tokenTypeIDsTensor, err = ort.NewTensor(shape, make([]int64, seqLen)); err != nil {
			e.Close()
			return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
		}
		inputNames = append(inputNames, tokenTypeIDsName)
		inputs = append(inputs, e.tokenTypeIDsTensor)
	}
	outputs := []ort.ArbitraryTensor{e.startLogitsTensor, e.endLogitsTensor}

	e.session, err = ort.NewAdvancedSession(
		opts.ModelPath,
		inputNames,
		[]string{startLogitsName, endLogitsName},
		inputs,
		outputs,
		nil,
	)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	return e, nil
}

// Infer returns the highest-scoring answer span across all context windows.
func (e *ONNXEngine) Infer(ctx context.Context, question, passage string) (*Answer, error) {
	enc, err := e.tokenizer.Encode(question, passage, e.window)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, &InferenceError{Err: errors.New("model not initialized")}
	}

	var best *Answer
	for i, f := range enc.Features {
		copy(e.inputIDsTensor.GetData(), f.InputIDs)
		copy(e.attentionMaskTensor.GetData(), f.AttentionMask)
		if e.tokenTypeIDsTensor != nil {
			copy(e.tokenTypeIDsTensor.GetData(), f.TokenTypeIDs)
		}
		if err := e.session.Run(); err != nil {
			return nil, &InferenceError{Err: fmt.Errorf("inference failed on window %d: %w", i, err)}
		}
		span, ok := DecodeSpan(e.startLogitsTensor.GetData(), e.endLogitsTensor.GetData(), f.ContextIndex, e.maxAnswerTokens)
		if !ok {
			continue
		}
		if best == nil || span.Score > best.Score {
			best = answerFromSpan(passage, enc, f, span)
		}
	}
	if best == nil {
		return nil, &InferenceError{Err: errors.New("no answer span found")}
	}
	return best, nil
}

// Name returns the configured model name.
func (e *ONNXEngine) Name() string {
	return e.name
}

// Close destroys the session and tensors.
func (e *ONNXEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	if e.inputIDsTensor != nil {
		_ = e.inputIDsTensor.Destroy()
		e.inputIDsTensor = nil
	}
	if e.attentionMaskTensor != nil {
		_ = e.attentionMaskTensor.Destroy()
		e.attentionMaskTensor = nil
	}
	if e.tokenTypeIDsTensor != nil {
		_ = e.tokenTypeIDsTensor.Destroy()
		e.tokenTypeIDsTensor = nil
	}
	if e.startLogitsTensor != nil {
		_ = e.startLogitsTensor.Destroy()
		e.startLogitsTensor = nil
	}
	if e.endLogitsTensor != nil {
		_ = e.endLogitsTensor.Destroy()
		e.endLogitsTensor = nil
	}
	return err
}
