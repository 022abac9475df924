package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"go.uber.org/zap"
)

// Tokenizer is an interface for different tokenizer implementations.
type Tokenizer interface {
	Name() string
	CountTokens(text string) (int, error)
	Close()
}

// --- Tiktoken Wrapper ---

type TiktokenWrapper struct {
	ttk  *tiktoken.Tiktoken
	name string
}

func (w *TiktokenWrapper) Name() string { return w.name }

func (w *TiktokenWrapper) CountTokens(text string) (int, error) {
	if w.ttk == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	return len(w.ttk.EncodeOrdinary(text)), nil
}

func (w *TiktokenWrapper) Close() {}

// --- HuggingFace (sugarme) Wrapper ---

type HFTokenizerWrapper struct {
	htk  *hf.Tokenizer
	name string
}

func (w *HFTokenizerWrapper) Name() string { return w.name }

func (w *HFTokenizerWrapper) CountTokens(text string) (int, error) {
	if w.htk == nil {
		return 0, errors.New("nil huggingface tokenizer")
	}
	en, err := w.htk.EncodeSingle(text)
	if err != nil {
		return 0, fmt.Errorf("huggingface encode: %w", err)
	}
	return len(en.Tokens), nil
}

func (w *HFTokenizerWrapper) Close() {}

// --- Tokenizer Loading Logic ---

const (
	TokenizerTiktoken    = "tiktoken"
	TokenizerHuggingFace = "huggingface"
	TokenizerApprox      = "approx"

	defaultTiktokenEncoding = "o200k_base"
	approxTokenizerName     = "chars/4"
	charsPerToken           = 4
)

// tiktokenLoadTimeout bounds the first-use download of the BPE ranks. The
// library's HTTP fetch has no deadline of its own.
var tiktokenLoadTimeout = 10 * time.Second

// tokenizerConfig selects the exact tokenizer.
type tokenizerConfig struct {
	Type  string
	Model string
	File  string
}

// newTokenizer returns the exact tokenizer for cfg. A nil Tokenizer with a nil
// error means the approximation was requested.
func newTokenizer(cfg tokenizerConfig) (Tokenizer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", TokenizerTiktoken:
		return loadWithTimeout(tiktokenLoadTimeout, func() (Tokenizer, error) {
			return loadTiktoken(cfg.Model)
		})
	case TokenizerHuggingFace:
		return loadHuggingFace(cfg.File)
	case TokenizerApprox:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported tokenizer type: %s. Use 'tiktoken', 'huggingface' or 'approx'", cfg.Type)
	}
}

// loadWithTimeout runs load and gives up after timeout. A load that finishes
// late is closed and discarded.
func loadWithTimeout(timeout time.Duration, load func() (Tokenizer, error)) (Tokenizer, error) {
	type result struct {
		tk  Tokenizer
		err error
	}
	done := make(chan result, 1)
	abandoned := make(chan struct{})
	go func() {
		tk, err := load()
		select {
		case done <- result{tk: tk, err: err}:
		case <-abandoned:
			if tk != nil {
				tk.Close()
			}
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-done:
		return r.tk, r.err
	case <-timer.C:
		close(abandoned)
		return nil, fmt.Errorf("tokenizer not ready after %s", timeout)
	}
}

func loadTiktoken(model string) (Tokenizer, error) {
	if model != "" {
		tke, err := tiktoken.EncodingForModel(model)
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoding for model '%s': %w", model, err)
		}
		return &TiktokenWrapper{ttk: tke, name: model}, nil
	}
	tke, err := tiktoken.GetEncoding(defaultTiktokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding '%s': %w", defaultTiktokenEncoding, err)
	}
	return &TiktokenWrapper{ttk: tke, name: defaultTiktokenEncoding}, nil
}

// loadHuggingFace loads a tokenizer.json from disk. Downloading from the hub
// is not supported.
func loadHuggingFace(tokenizerFile string) (Tokenizer, error) {
	if tokenizerFile == "" {
		return nil, errors.New("huggingface tokenizer requires --tokenizer-file")
	}
	ttk, err := pretrained.FromFile(tokenizerFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer from file %s: %w", tokenizerFile, err)
	}
	return &HFTokenizerWrapper{htk: ttk, name: "huggingface:" + tokenizerFile}, nil
}

// approximateTokens is the character count divided by four, rounded down.
func approximateTokens(text string) int {
	return utf8.RuneCountInString(text) / charsPerToken
}

// estimateTokens counts tokens with tk when available and never fails: a nil
// or failing tokenizer yields the approximation.
func estimateTokens(tk Tokenizer, text string, logger *zap.Logger) (count int, method string) {
	if text == "" {
		return 0, tokenizerName(tk)
	}
	if tk == nil {
		return approximateTokens(text), approxTokenizerName
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("tokenizer panicked, using approximation", zap.String("tokenizer", tk.Name()), zap.Any("panic", r))
			count, method = approximateTokens(text), approxTokenizerName
		}
	}()
	count, err := tk.CountTokens(text)
	if err != nil {
		logger.Debug("tokenizer failed, using approximation", zap.String("tokenizer", tk.Name()), zap.Error(err))
		return approximateTokens(text), approxTokenizerName
	}
	return count, tk.Name()
}

func tokenizerName(tk Tokenizer) string {
	if tk == nil {
		return approxTokenizerName
	}
	return tk.Name()
}
