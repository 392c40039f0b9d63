package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/valyala/fasthttp"

	"mixes-tracker/internal/config"
	"mixes-tracker/internal/constants"
	"mixes-tracker/internal/steamid"
)

// LogsTFClient talks to the logs.tf match archive. Both of its operations are
// idempotent reads wrapped in a retry budget, and every outbound call is
// preceded by a courtesy delay because the archive degrades under rapid-fire
// requests.
type LogsTFClient struct {
	baseURL       string
	client        *fasthttp.Client
	courtesyDelay time.Duration
	retryAttempts uint64
	retryDelay    time.Duration
	logger        zerolog.Logger
}

func NewLogsTFClient(cfg *config.Config, logger zerolog.Logger) *LogsTFClient {
	return &LogsTFClient{
		baseURL: cfg.ArchiveBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		courtesyDelay: cfg.CourtesyDelay,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		logger:        logger,
	}
}

// SearchPlayerLogs queries the archive for log summaries mentioning the given
// player, newest first. An empty title matches every log. The limit is capped
// by the archive at 10000 entries.
func (c *LogsTFClient) SearchPlayerLogs(ctx context.Context, id steamid.SteamID, title string, limit int) ([]LogSummary, error) {
	if limit > constants.SearchLimitMax {
		limit = constants.SearchLimitMax
	}

	q := url.Values{}
	q.Set("player", id.ID64String())
	if title != "" {
		q.Set("title", title)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp searchResponse
	if err := c.query(ctx, c.baseURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	summaries := make([]LogSummary, len(resp.Logs))
	for i, entry := range resp.Logs {
		summaries[i] = LogSummary{
			ID:          entry.ID,
			PlayedAt:    time.Unix(entry.Date, 0).UTC(),
			Map:         entry.Map,
			PlayerCount: entry.Players,
		}
	}

	// The archive serves results ordered by id descending; the rest of the
	// pipeline depends on that ordering, so enforce it.
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID > summaries[j].ID })

	c.logger.Debug().
		Str("player", id.ID64String()).
		Int("count", len(summaries)).
		Msg("archive search completed")

	return summaries, nil
}

// DownloadLog retrieves the full match document for one log id.
func (c *LogsTFClient) DownloadLog(ctx context.Context, logID uint32) (*RawLog, error) {
	var raw RawLog
	if err := c.query(ctx, fmt.Sprintf("%s/%d", c.baseURL, logID), &raw); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Uint32("log_id", logID).
		Int("players", len(raw.Players)).
		Msg("log downloaded")

	return &raw, nil
}

type envelope interface {
	envelope() (success bool, errMsg string)
}

func (r *searchResponse) envelope() (bool, string) { return r.Success, r.Error }
func (r *RawLog) envelope() (bool, string)         { return r.Success, r.Error }

func (c *LogsTFClient) query(ctx context.Context, fullURL string, out envelope) error {
	backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewConstant(c.retryDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.pause(ctx); err != nil {
			return err
		}

		body, err := c.get(ctx, fullURL)
		if err != nil {
			c.logger.Warn().Err(err).Str("url", fullURL).Msg("archive request failed")
			return retry.RetryableError(fmt.Errorf("%w: %v", ErrTransport, err))
		}

		if err := json.Unmarshal(body, out); err != nil {
			c.logger.Warn().Err(err).Str("url", fullURL).Msg("archive payload undecodable")
			return retry.RetryableError(fmt.Errorf("%w: %v", ErrDecode, err))
		}

		if success, msg := out.envelope(); !success {
			c.logger.Warn().Str("url", fullURL).Str("reason", msg).Msg("archive rejected query")
			return retry.RetryableError(fmt.Errorf("%w: %s", ErrRejected, msg))
		}

		return nil
	})
}

// pause applies the courtesy delay that precedes every outbound call,
// including the first attempt. It is not a retry backoff.
func (c *LogsTFClient) pause(ctx context.Context) error {
	if c.courtesyDelay <= 0 {
		return nil
	}
	t := time.NewTimer(c.courtesyDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *LogsTFClient) get(ctx context.Context, fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	// The response body is reused once released; copy it out.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
