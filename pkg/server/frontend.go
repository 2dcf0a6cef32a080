package server

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/bastiangx/wordgraph/internal/utils"
	"github.com/bastiangx/wordgraph/pkg/config"
	"github.com/bastiangx/wordgraph/pkg/engine"
	"github.com/bastiangx/wordgraph/pkg/suggest"
	"github.com/charmbracelet/log"
)

// frontend holds what the HTTP and IPC servers share: the engine, the live
// config and the request validation built on it.
type frontend struct {
	engine  engine.TextEngine
	metrics *Metrics
	logger  *log.Logger

	mu  sync.RWMutex
	cfg config.Config
}

func newFrontend(eng engine.TextEngine, cfg *config.Config, metrics *Metrics, logger *log.Logger) *frontend {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	f := &frontend{engine: eng, metrics: metrics, logger: logger, cfg: *cfg}
	eng.SetTopWords(cfg.Engine.TopWords)
	return f
}

func (f *frontend) settings() config.Config {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cfg
}

func (f *frontend) applyConfig(cfg *config.Config) {
	f.mu.Lock()
	f.cfg = *cfg
	f.mu.Unlock()
	f.engine.SetTopWords(cfg.Engine.TopWords)
}

// chat rejects only a missing message; whitespace is answered with the
// current top words.
func (f *frontend) chat(message string) (engine.Reply, error) {
	if message == "" {
		return engine.Reply{}, ErrEmptyMessage
	}
	reply := f.engine.Respond(message)
	f.metrics.ingested(len(engine.Tokenize(message)))
	return reply, nil
}

func (f *frontend) ingest(message string) (int, error) {
	tokens := len(engine.Tokenize(message))
	if tokens == 0 {
		return 0, ErrEmptyMessage
	}
	f.engine.Ingest(message)
	f.metrics.ingested(tokens)
	return tokens, nil
}

func (f *frontend) complete(prefix string, limit int) ([]suggest.Suggestion, error) {
	cfg := f.settings()
	if prefix == "" {
		return nil, fmt.Errorf("%w: missing prefix", ErrInvalidRequest)
	}
	if n := utf8.RuneCountInString(prefix); n > cfg.Server.MaxPrefix {
		return nil, fmt.Errorf("%w: prefix exceeds maximum length of %d characters", ErrInvalidRequest, cfg.Server.MaxPrefix)
	}
	if limit < 1 {
		limit = cfg.Engine.SuggestLimit
	}
	if limit > cfg.Server.MaxLimit {
		limit = cfg.Server.MaxLimit
	}
	return f.engine.RankedCompletions(prefix, limit), nil
}

// ChatReply is the JSON body answering POST /chat.
type ChatReply struct {
	TopWords     string `json:"top_words"`
	LastWord     string `json:"last_word"`
	Suggestions  string `json:"suggestions"`
	NextWord     string `json:"next_word"`
	RelatedWords string `json:"related_words"`
}

// FormatReply renders r for display, with placeholder for every empty list and
// a missing prediction. The last word is shown as is, even when blank.
func FormatReply(r engine.Reply, placeholder string) ChatReply {
	return ChatReply{
		TopWords:     utils.JoinOr(r.TopWords, placeholder),
		LastWord:     r.LastWord,
		Suggestions:  utils.JoinOr(r.Suggestions, placeholder),
		NextWord:     utils.ValueOr(r.NextWord, r.HasNext, placeholder),
		RelatedWords: utils.JoinOr(r.Related, placeholder),
	}
}
