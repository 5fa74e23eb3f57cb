package tips

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"max.ks1230/spendwise/internal/logger"
)

// Refresher warms the generic-tip cache entry once a day so the first
// visitor after midnight does not pay for the remote call.
type Refresher struct {
	cron     *cron.Cron
	provider *Provider
}

func NewRefresher(provider *Provider) *Refresher {
	return &Refresher{
		cron:     cron.New(),
		provider: provider,
	}
}

func (r *Refresher) Start() error {
	_, err := r.cron.AddFunc("@midnight", func() {
		logger.Info("refreshing daily tip")
		r.provider.GenericTip(context.Background())
	})
	if err != nil {
		return errors.Wrap(err, "schedule tip refresh")
	}
	r.cron.Start()
	return nil
}

func (r *Refresher) Stop() {
	r.cron.Stop()
}
