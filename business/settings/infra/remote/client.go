// Package remote talks to the settings API: an opaque JSON blob per user,
// fetched and replaced wholesale.
package remote

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/spreadpad/spreadpad/business/settings/domain"
	"github.com/spreadpad/spreadpad/internal/apm"
	"github.com/spreadpad/spreadpad/internal/apperror"
	"github.com/spreadpad/spreadpad/internal/httpclient"
	"github.com/spreadpad/spreadpad/internal/ratelimit"
)

// Client is the remote settings store client. Writes pass through a rate
// limiter so a misbehaving caller cannot hammer the API.
type Client struct {
	http    httpclient.Client
	limiter *ratelimit.Limiter
	tracer  apm.Tracer
}

// NewClient creates a settings API client.
func NewClient(http httpclient.Client, limiter *ratelimit.Limiter) *Client {
	return &Client{
		http:    http,
		limiter: limiter,
		tracer:  apm.NewTracer("settings.remote"),
	}
}

// Fetch returns the remote snapshot for the token's user, or nil when the
// user has never saved one.
func (c *Client) Fetch(ctx context.Context, token string) (*domain.Snapshot, error) {
	ctx, span := c.tracer.Start(ctx, "settings.fetch")
	defer span.End()

	var snap domain.Snapshot
	resp, err := c.http.NewRequest().
		SetHeader("Authorization", "Bearer "+token).
		SetResult(&snap).
		Get(ctx, "/api/settings")
	if err != nil {
		return nil, apperror.External(apperror.CodeSettingsFetchFailed, "get settings", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperror.Unauthorized(apperror.CodeSessionUnauthorized, "get settings")
	case resp.IsError():
		return nil, apperror.External(apperror.CodeSettingsFetchFailed, resp.Status, nil)
	}
	if len(resp.Body()) == 0 {
		return nil, nil
	}
	return &snap, nil
}

// Push replaces the remote snapshot. Device-only preferences are stripped
// before the write.
func (c *Client) Push(ctx context.Context, token string, snap domain.Snapshot) error {
	ctx, span := c.tracer.Start(ctx, "settings.push")
	defer span.End()
	span.SetAttributes(attribute.Int("settings.tab_count", len(snap.Calculators)))

	if err := c.limiter.Wait(ctx); err != nil {
		return apperror.Wrap(err, apperror.CodeSettingsSaveFailed, "rate limit wait")
	}

	resp, err := c.http.NewRequest().
		SetHeader("Authorization", "Bearer "+token).
		SetBody(snap.RemoteView()).
		Put(ctx, "/api/settings")
	if err != nil {
		span.NoticeError(err)
		return apperror.External(apperror.CodeSettingsSaveFailed, "put settings", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return apperror.Unauthorized(apperror.CodeSessionUnauthorized, "put settings")
	}
	if resp.IsError() {
		return apperror.External(apperror.CodeSettingsSaveFailed, resp.Status, nil)
	}
	return nil
}
