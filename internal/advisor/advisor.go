// Package advisor asks a generative-language service for visitor help text
// and for a reliability judgement of a stated visit purpose. Every failure
// degrades to a fixed fallback; nothing here returns an error.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Fallback texts shown when the service cannot answer.
const (
	HelpFallback    = "Xin lỗi, tôi không thể trả lời lúc này. Vui lòng thử lại sau."
	SummaryFallback = "Không thể phân tích lý do."
)

const helpInstruction = "Bạn là trợ lý ảo hỗ trợ khách thăm tại một tòa nhà công sở. " +
	"Trả lời ngắn gọn, lịch sự về quy trình đăng ký: 1. Đăng ký thông tin. 2. Chờ cán bộ duyệt. " +
	"3. Tra cứu bằng số điện thoại. 4. Xuất trình CMND khi đến."

const classifyInstruction = "Chỉ trả lời bằng một đối tượng JSON, không kèm giải thích."

// Operation names passed to the fallback hook.
const (
	OpHelp     = "help"
	OpClassify = "classify"
)

// Reliability is the judged plausibility of a visit purpose.
type Reliability string

const (
	High    Reliability = "High"
	Medium  Reliability = "Medium"
	Low     Reliability = "Low"
	Unknown Reliability = "Unknown"
)

// Classification is the result of judging a visit purpose.
type Classification struct {
	Reliability Reliability `json:"reliability"`
	Summary     string      `json:"summary"`
}

// FallbackClassification is returned when classification fails.
func FallbackClassification() Classification {
	return Classification{Reliability: Unknown, Summary: SummaryFallback}
}

// Request is one text-in/text-out call to the service.
type Request struct {
	System string
	Prompt string
}

// Generator performs a single generation call.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Advisor wraps a Generator with fallbacks and a per-visitor cache of
// classifications.
type Advisor struct {
	gen        Generator
	log        *slog.Logger
	onFallback func(op string)

	mu     sync.RWMutex
	cache  map[string]Classification
	flight singleflight.Group
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithLogger sets the advisor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Advisor) { a.log = logger }
}

// WithFallbackHook registers fn to be called each time a fallback is used.
func WithFallbackHook(fn func(op string)) Option {
	return func(a *Advisor) { a.onFallback = fn }
}

// New creates an advisor. A nil generator makes every call fall back.
func New(gen Generator, opts ...Option) *Advisor {
	a := &Advisor{
		gen:   gen,
		log:   slog.Default(),
		cache: make(map[string]Classification),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("component", "advisor")
	return a
}

// Enabled reports whether a generator is configured.
func (a *Advisor) Enabled() bool {
	return a.gen != nil
}

// Help answers a visitor's question about the registration procedure.
func (a *Advisor) Help(ctx context.Context, question string) string {
	if a.gen == nil {
		a.fallback(OpHelp, fmt.Errorf("no generator configured"))
		return HelpFallback
	}

	answer, err := a.gen.Generate(ctx, Request{System: helpInstruction, Prompt: question})
	if err != nil {
		a.fallback(OpHelp, err)
		return HelpFallback
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		a.fallback(OpHelp, fmt.Errorf("empty answer"))
		return HelpFallback
	}
	return answer
}

// Classify judges the purpose of the visit request with the given id.
// The first result for an id, fallback included, is cached and returned
// on every later call without contacting the service. Concurrent calls for
// the same id share one upstream request. A caller whose context ends
// first gets the fallback; the shared request still completes and fills
// the cache.
func (a *Advisor) Classify(ctx context.Context, id, purpose string) Classification {
	if c, ok := a.Cached(id); ok {
		return c
	}

	ch := a.flight.DoChan(id, func() (any, error) {
		if c, ok := a.Cached(id); ok {
			return c, nil
		}
		c := a.classify(context.WithoutCancel(ctx), purpose)

		a.mu.Lock()
		a.cache[id] = c
		a.mu.Unlock()
		return c, nil
	})

	select {
	case res := <-ch:
		return res.Val.(Classification)
	case <-ctx.Done():
		a.log.Debug("classification abandoned by caller", "id", id, "error", ctx.Err())
		return FallbackClassification()
	}
}

// Cached returns the cached classification for id, if any.
func (a *Advisor) Cached(id string) (Classification, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.cache[id]
	return c, ok
}

func (a *Advisor) classify(ctx context.Context, purpose string) Classification {
	if a.gen == nil {
		a.fallback(OpClassify, fmt.Errorf("no generator configured"))
		return FallbackClassification()
	}

	reply, err := a.gen.Generate(ctx, Request{System: classifyInstruction, Prompt: classifyPrompt(purpose)})
	if err != nil {
		a.fallback(OpClassify, err)
		return FallbackClassification()
	}

	c, err := parseClassification(reply)
	if err != nil {
		a.fallback(OpClassify, err)
		return FallbackClassification()
	}
	return c
}

func (a *Advisor) fallback(op string, err error) {
	a.log.Warn("advisor fallback", "op", op, "error", err)
	if a.onFallback != nil {
		a.onFallback(op)
	}
}

func classifyPrompt(purpose string) string {
	return fmt.Sprintf(`Phân tích mức độ tin cậy của lý do thăm sau: %q. `+
		`Trả lời dạng JSON: { "reliability": "High/Medium/Low", "summary": "tóm tắt ngắn" }`, purpose)
}

// parseClassification extracts the first JSON object from reply and checks
// that its reliability is one of High, Medium or Low.
func parseClassification(reply string) (Classification, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return Classification{}, err
	}

	var body struct {
		Reliability string `json:"reliability"`
		Summary     string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return Classification{}, fmt.Errorf("decoding classification: %w", err)
	}

	var r Reliability
	switch strings.ToLower(strings.TrimSpace(body.Reliability)) {
	case "high":
		r = High
	case "medium":
		r = Medium
	case "low":
		r = Low
	default:
		return Classification{}, fmt.Errorf("unexpected reliability %q", body.Reliability)
	}

	return Classification{Reliability: r, Summary: strings.TrimSpace(body.Summary)}, nil
}

// extractJSON finds the outermost JSON object in s.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in reply")
	}
	return s[start : end+1], nil
}
