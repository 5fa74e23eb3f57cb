package tips

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/spendwise/internal/clients/textgen"
	"max.ks1230/spendwise/internal/logger"
	"max.ks1230/spendwise/internal/model/ledger"
)

const coachPrompt = "You are a friendly personal finance coach. Give one short, actionable money-saving tip."

const (
	contextWindowDays = 30
	contextCategories = 3
)

type completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

type tipCache interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
}

type topSpender interface {
	TopCategories(ctx context.Context, username string, since time.Time, n int) ([]ledger.CategoryTotal, error)
}

type config interface {
	MaxTokens() int
	Temperature() float64
	CacheTTL() int64
}

// Provider produces the advice-widget string. By contract it always
// returns a usable tip: remote failures of any kind resolve to the
// static pool, never to an error or an empty string.
type Provider struct {
	client      completer
	cache       tipCache
	ledger      topSpender
	maxTokens   int
	temperature float64
	cacheTTL    time.Duration
	clock       func() time.Time
}

func NewProvider(client completer, cache tipCache, ledger topSpender, config config) *Provider {
	return &Provider{
		client:      client,
		cache:       cache,
		ledger:      ledger,
		maxTokens:   config.MaxTokens(),
		temperature: config.Temperature(),
		cacheTTL:    time.Duration(config.CacheTTL()) * time.Minute,
		clock:       time.Now,
	}
}

// DailyTip returns a tip grounded in the user's recent spending.
func (p *Provider) DailyTip(ctx context.Context, username string) string {
	return p.tip(ctx, p.buildPrompt(ctx, username))
}

// GenericTip returns an uncontextualized tip; the daily refresher uses
// it to keep the shared prompt warm in the cache.
func (p *Provider) GenericTip(ctx context.Context) string {
	return p.tip(ctx, coachPrompt)
}

func (p *Provider) tip(ctx context.Context, prompt string) string {
	key := cacheKey(prompt, p.maxTokens, p.temperature)
	if text, ok := p.cache.Get(key); ok {
		return text
	}

	text, err := p.client.Complete(ctx, prompt, p.maxTokens, p.temperature)
	if err != nil {
		if !errors.Is(err, textgen.ErrNotConfigured) {
			logger.Warn("remote tip unavailable, using fallback", zap.Error(err))
		}
		return fallbackTip()
	}

	p.cache.Set(key, text, p.cacheTTL)
	return text
}

// buildPrompt appends a context line naming the top three categories
// by spend over the last 30 days, when there are any.
func (p *Provider) buildPrompt(ctx context.Context, username string) string {
	tipContext := "No expenses logged yet."

	since := p.clock().AddDate(0, 0, -contextWindowDays)
	top, err := p.ledger.TopCategories(ctx, username, since, contextCategories)
	if err != nil {
		logger.Warn("cannot build tip context", zap.Error(err))
		top = nil
	}
	if len(top) > 0 {
		pairs := make([]string, 0, len(top))
		for _, rec := range top {
			pairs = append(pairs, fmt.Sprintf("%s: $%s", rec.Category, rec.Amount.StringFixed(0)))
		}
		tipContext = strings.Join(pairs, ", ")
	}

	return coachPrompt + "\nUser context: " + tipContext
}

func cacheKey(prompt string, maxTokens int, temperature float64) string {
	return fmt.Sprintf("%s|%d|%.2f", prompt, maxTokens, temperature)
}
