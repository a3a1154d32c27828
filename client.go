package ringws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
)

// Client talks to the RING web service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        Config
	logger     zerolog.Logger
}

// NewClient creates a client. Zero fields of cfg take their DefaultConfig
// values.
func NewClient(cfg Config) (*Client, error) {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.MaxPollInterval == 0 {
		cfg.MaxPollInterval = max(def.MaxPollInterval, cfg.PollInterval)
	}
	if cfg.MaxResponseBytes == 0 {
		cfg.MaxResponseBytes = def.MaxResponseBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout.Std()}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger.With().Str("component", "ringws").Logger(),
	}, nil
}

// Send performs req and returns the raw response body. Non-2xx answers are
// returned as *APIError.
func (c *Client) Send(ctx context.Context, req Request) ([]byte, error) {
	body, err := req.Body()
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/" + strings.TrimLeft(req.Endpoint(), "/")

	var reader io.Reader
	if body.Data != nil {
		reader = bytes.NewReader(body.Data)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), url, reader)
	if err != nil {
		return nil, fmt.Errorf("ringws: create request: %w", err)
	}
	requestID := uuid.NewString()
	if body.ContentType != "" {
		httpReq.Header.Set("Content-Type", body.ContentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", "gzip")
	httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	httpReq.Header.Set("X-Request-Id", requestID)

	log := c.logger.With().Str("request_id", requestID).Str("method", req.Method()).Str("url", url).Logger()
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Msg("request failed")
		return nil, fmt.Errorf("ringws: %s %s: %w", req.Method(), url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Body close error can be ignored

	data, err := c.readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("ringws: read response: %w", err)
	}
	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Method:     req.Method(),
			URL:        url,
			Body:       truncate(string(data), 512),
		}
	}
	return data, nil
}

// readBody decompresses gzip bodies the transport left alone and enforces
// MaxResponseBytes.
func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer zr.Close() //nolint:errcheck
		r = zr
	}
	limit := c.cfg.MaxResponseBytes
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("body exceeds %d bytes", limit)
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// SubmitID submits a job for a PDB id.
func (c *Client) SubmitID(ctx context.Context, req SubmitID) (SubmitResponse, error) {
	data, err := c.Send(ctx, req)
	if err != nil {
		return SubmitResponse{}, err
	}
	resp, err := DecodeSubmitResponse(data, c.cfg.Decode)
	if err != nil {
		return resp, fmt.Errorf("ringws: decode submit response: %w", err)
	}
	c.logger.Info().Str("pdb_id", req.PDBID).Str("job_id", resp.JobID.String()).Msg("job submitted")
	return resp, nil
}

// SubmitStructure uploads a structure file.
func (c *Client) SubmitStructure(ctx context.Context, req SubmitStructure) (SubmitResponse, error) {
	data, err := c.Send(ctx, req)
	if err != nil {
		return SubmitResponse{}, err
	}
	resp, err := DecodeSubmitResponse(data, c.cfg.Decode)
	if err != nil {
		return resp, fmt.Errorf("ringws: decode submit response: %w", err)
	}
	c.logger.Info().Str("file", req.FileName).Str("job_id", resp.JobID.String()).Msg("structure submitted")
	return resp, nil
}

// Status fetches the status of a job.
func (c *Client) Status(ctx context.Context, id JobID) (StatusResponse, error) {
	data, err := c.Send(ctx, StatusRequest{JobID: id})
	if err != nil {
		return StatusResponse{}, err
	}
	resp, err := DecodeStatusResponse(data, c.cfg.Decode)
	if err != nil {
		return resp, fmt.Errorf("ringws: decode status response: %w", err)
	}
	c.logWarnings(resp.Warnings)
	return resp, nil
}

// Result fetches the interaction graph of a job.
func (c *Client) Result(ctx context.Context, id JobID) (ResultResponse, error) {
	data, err := c.Send(ctx, ResultRequest{JobID: id})
	if err != nil {
		return ResultResponse{}, err
	}
	resp, err := DecodeResultResponse(data, c.cfg.Decode)
	if err != nil {
		return resp, fmt.Errorf("ringws: decode result response: %w", err)
	}
	c.logWarnings(resp.Warnings)
	c.logger.Debug().Str("job_id", id.String()).Int("nodes", len(resp.Nodes)).Int("edges", len(resp.Edges)).Msg("result decoded")
	return resp, nil
}

func (c *Client) logWarnings(iss Issues) {
	for _, it := range iss {
		c.logger.Warn().Str("code", it.Code).Str("path", it.Path).Msg(it.Message)
	}
}

// Wait polls the status of a job until it completes. It returns the last
// status on success, ErrJobFailed when the service reports an error, and
// ErrWaitTimeout when MaxWait elapses. Transport failures and 5xx answers
// are retried; 4xx answers and malformed responses end the wait.
func (c *Client) Wait(ctx context.Context, id JobID) (StatusResponse, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.cfg.PollInterval.Std()
	eb.MaxInterval = c.cfg.MaxPollInterval.Std()
	eb.Multiplier = 1.5
	eb.RandomizationFactor = 0.1
	eb.MaxElapsedTime = c.cfg.MaxWait.Std()
	eb.Reset()

	var last StatusResponse
	operation := func() error {
		resp, err := c.Status(ctx, id)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			if _, ok := AsIssues(err); ok {
				return backoff.Permanent(err)
			}
			return err
		}
		last = resp
		switch resp.Status {
		case StatusComplete:
			return nil
		case StatusFailed:
			return backoff.Permanent(fmt.Errorf("%w: job %s", ErrJobFailed, id))
		default:
			return errPending
		}
	}
	notify := func(err error, next time.Duration) {
		if errors.Is(err, errPending) {
			c.logger.Debug().Str("job_id", id.String()).Str("status", last.Status.String()).Dur("next", next).Msg("job pending")
			return
		}
		c.logger.Warn().Err(err).Str("job_id", id.String()).Dur("next", next).Msg("status check failed, retrying")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(eb, ctx), notify)
	if errors.Is(err, errPending) {
		return last, fmt.Errorf("%w: job %s still %s", ErrWaitTimeout, id, last.Status)
	}
	if err != nil {
		return last, err
	}
	c.logger.Info().Str("job_id", id.String()).Msg("job complete")
	return last, nil
}

var errPending = errors.New("ringws: job pending")

// Run submits req, waits for the job and fetches the result.
func (c *Client) Run(ctx context.Context, req Request) (ResultResponse, error) {
	var (
		sub SubmitResponse
		err error
	)
	switch r := req.(type) {
	case SubmitID:
		sub, err = c.SubmitID(ctx, r)
	case SubmitStructure:
		sub, err = c.SubmitStructure(ctx, r)
	default:
		return ResultResponse{}, fmt.Errorf("ringws: run: %T is not a submission", req)
	}
	if err != nil {
		return ResultResponse{}, err
	}
	if _, err := c.Wait(ctx, sub.JobID); err != nil {
		return ResultResponse{}, err
	}
	return c.Result(ctx, sub.JobID)
}
