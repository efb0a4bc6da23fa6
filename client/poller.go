package client

import (
	"context"
	"fmt"
	"time"

	"relocare/models"
	"relocare/services/notification"
)

// DefaultPollInterval is how often the site refreshes its service list.
const DefaultPollInterval = 30 * time.Second

// PollServices fetches the catalogue immediately and then every interval
// until ctx is cancelled. Each successful fetch is handed to onUpdate. A
// failed fetch is reported to the Sink and the next tick tries again.
func (c *Client) PollServices(ctx context.Context, interval time.Duration, onUpdate func([]models.Service)) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		c.pollOnce(ctx, onUpdate)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *Client) pollOnce(ctx context.Context, onUpdate func([]models.Service)) {
	services, err := c.ListServices(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if c.Sink != nil {
			c.Sink.Notify(fmt.Sprintf("Failed to refresh services: %v", err), notification.KindError)
		}
		return
	}
	if onUpdate != nil {
		onUpdate(services)
	}
}
