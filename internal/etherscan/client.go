package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.etherscan.io/v2/api"
	DefaultTopic0    = "0x0e540ff014403c501655ba5fcd7f36ec5f6df99f851e513e7d6c4c93da112174"
	DefaultChainID   = uint64(137)
	DefaultPageSize  = 1000
	DefaultToBlock   = uint64(99999999)
	DefaultRateDelay = 250 * time.Millisecond
	DefaultTimeout   = 30 * time.Second

	statusOK      = "1"
	maxBodyBytes  = 64 << 20
	tracerName    = "c2scope/etherscan"
	noRecordsText = "no records found"
)

// Config holds the immutable settings of the indexing API client.
type Config struct {
	BaseURL   string
	APIKey    string
	ChainID   uint64
	Topic0    string
	FromBlock uint64
	ToBlock   uint64
	PageSize  int
	RateDelay time.Duration
	Timeout   time.Duration
}

// Client queries an Etherscan v2 compatible indexing API. Every request goes
// through one limiter, so consecutive calls are spaced by RateDelay.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	tracer  trace.Tracer
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// NewClient builds a Client, filling zero config values with defaults.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = DefaultChainID
	}
	if cfg.Topic0 == "" {
		cfg.Topic0 = DefaultTopic0
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.ToBlock == 0 {
		cfg.ToBlock = DefaultToBlock
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RateDelay > 0 {
		limit = rate.Every(cfg.RateDelay)
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// ChainID returns the chain the client queries.
func (c *Client) ChainID() uint64 {
	return c.cfg.ChainID
}

func (c *Client) get(ctx context.Context, params url.Values) (apiResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return apiResponse{}, err
	}

	ctx, span := c.tracer.Start(ctx, "etherscan."+params.Get("action"),
		trace.WithAttributes(
			attribute.String("etherscan.module", params.Get("module")),
			attribute.Int64("etherscan.chain_id", int64(c.cfg.ChainID)),
		),
	)
	defer span.End()

	resp, err := c.do(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apiResponse{}, err
	}
	span.SetAttributes(attribute.String("etherscan.status", resp.Status))
	return resp, nil
}

func (c *Client) do(ctx context.Context, params url.Values) (apiResponse, error) {
	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return apiResponse{}, fmt.Errorf("parse api url: %w", err)
	}
	query := endpoint.Query()
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	query.Set("chainid", strconv.FormatUint(c.cfg.ChainID, 10))
	query.Set("apikey", c.cfg.APIKey)
	endpoint.RawQuery = query.Encode()

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return apiResponse{}, fmt.Errorf("build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return apiResponse{}, fmt.Errorf("request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return apiResponse{}, fmt.Errorf("unexpected http status: %d", res.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes)).Decode(&out); err != nil {
		return apiResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func isNoRecords(resp apiResponse) bool {
	return strings.Contains(strings.ToLower(resp.Message), noRecordsText)
}

// resultText returns the result field when the API reported an error string.
func resultText(resp apiResponse) string {
	var text string
	if err := json.Unmarshal(resp.Result, &text); err != nil {
		return ""
	}
	return text
}
