package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/http/httpproxy"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/thesavant42/salesview/internal/models"
)

const (
	salesUserAgent = "salesview/1.0"
	defaultTimeout = 30 * time.Second
)

// API paths, relative to the configured base URL.
const (
	PathFilterableData = "/filterable-data/"
	PathSummaryMetrics = "/summary-metrics/"
	PathLineChart      = "/line-chart/"
	PathBarChart       = "/bar-chart/"
	PathImportCSV      = "/import-csv/"
)

// SalesOptions configures a SalesClient.
type SalesOptions struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	Burst     int
	Proxy     string // explicit proxy URL; empty uses HTTP(S)_PROXY
	NoProxy   string
	Logger    *log.Logger
}

// SalesClient talks to the sales dashboard REST API.
type SalesClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	group      singleflight.Group
	logger     *log.Logger
}

// NewSalesClient creates a client for the API rooted at opts.BaseURL.
func NewSalesClient(opts SalesOptions) (*SalesClient, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	proxyCfg := httpproxy.FromEnvironment()
	if opts.Proxy != "" {
		proxyCfg.HTTPProxy = opts.Proxy
		proxyCfg.HTTPSProxy = opts.Proxy
	}
	if opts.NoProxy != "" {
		proxyCfg.NoProxy = opts.NoProxy
	}
	proxyFunc := proxyCfg.ProxyFunc()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}

	limit := rate.Inf
	burst := opts.Burst
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if burst < 1 {
		burst = 1
	}

	return &SalesClient{
		baseURL: strings.TrimSuffix(base.String(), "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  opts.Logger,
	}, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *SalesClient) BaseURL() string {
	return c.baseURL
}

// FetchRows returns the rows matching params from GET /filterable-data/.
// Identical queries already in flight share one request.
func (c *SalesClient) FetchRows(ctx context.Context, params models.QueryParams) ([]models.Row, error) {
	query := params.Encode()
	v, err, shared := c.group.Do(PathFilterableData+"?"+query, func() (interface{}, error) {
		var rows []models.Row
		err := c.get(ctx, PathFilterableData, query, func(body io.Reader) error {
			decoded, err := models.DecodeRows(body)
			rows = decoded
			return err
		})
		return rows, err
	})
	if shared && c.logger != nil {
		c.logger.Debug("Coalesced request", "query", query)
	}
	if err != nil {
		return nil, err
	}
	return v.([]models.Row), nil
}

// FetchSummary returns GET /summary-metrics/.
func (c *SalesClient) FetchSummary(ctx context.Context) (models.SummaryMetrics, error) {
	var m models.SummaryMetrics
	err := c.get(ctx, PathSummaryMetrics, "", decodeInto(&m))
	return m, err
}

// FetchMonthlyQuantity returns the GET /line-chart/ series.
func (c *SalesClient) FetchMonthlyQuantity(ctx context.Context) ([]models.MonthlyQuantity, error) {
	var points []models.MonthlyQuantity
	err := c.get(ctx, PathLineChart, "", decodeInto(&points))
	return points, err
}

// FetchMonthlyRevenue returns the GET /bar-chart/ series.
func (c *SalesClient) FetchMonthlyRevenue(ctx context.Context) ([]models.MonthlyRevenue, error) {
	var points []models.MonthlyRevenue
	err := c.get(ctx, PathBarChart, "", decodeInto(&points))
	return points, err
}

// FetchDashboard loads the summary and both monthly series concurrently.
// The first failure cancels the others.
func (c *SalesClient) FetchDashboard(ctx context.Context) (models.Dashboard, error) {
	var (
		summary  models.SummaryMetrics
		quantity []models.MonthlyQuantity
		revenue  []models.MonthlyRevenue
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = c.FetchSummary(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		quantity, err = c.FetchMonthlyQuantity(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = c.FetchMonthlyRevenue(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Dashboard{}, err
	}

	return models.Dashboard{
		Summary: summary,
		Trends:  models.MergeTrends(quantity, revenue),
	}, nil
}

// ImportCSV uploads sales CSV files to POST /import-csv/ as multipart field
// "files". Only names ending in ".csv" are accepted.
func (c *SalesClient) ImportCSV(ctx context.Context, paths []string) (models.ImportResult, error) {
	if len(paths) == 0 {
		return models.ImportResult{}, errors.New("no files selected")
	}
	for _, p := range paths {
		if !strings.HasSuffix(p, ".csv") {
			return models.ImportResult{}, fmt.Errorf("invalid file format: %s, please select a CSV file", filepath.Base(p))
		}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range paths {
		if err := attachFile(mw, p); err != nil {
			return models.ImportResult{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return models.ImportResult{}, fmt.Errorf("failed to finish upload body: %w", err)
	}

	op := http.MethodPost + " " + PathImportCSV
	if err := c.wait(ctx, op); err != nil {
		return models.ImportResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathImportCSV, &buf)
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", salesUserAgent)
	req.Header.Set("Accept", "application/json")

	var result models.ImportResult
	err = c.do(req, op, decodeInto(&result))
	if err != nil {
		return models.ImportResult{}, err
	}
	if c.logger != nil {
		c.logger.Info("Import finished", "files", len(paths), "message", result.Message)
	}
	return result, nil
}

func attachFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to add %s to upload: %w", path, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func decodeInto(dst interface{}) func(io.Reader) error {
	return func(body io.Reader) error {
		return json.NewDecoder(body).Decode(dst)
	}
}

// wait blocks until the rate limiter admits one more request.
func (c *SalesClient) wait(ctx context.Context, op string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return nil
}

func (c *SalesClient) get(ctx context.Context, path, query string, decode func(io.Reader) error) error {
	op := http.MethodGet + " " + path
	if err := c.wait(ctx, op); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if query != "" {
		endpoint += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", salesUserAgent)
	req.Header.Set("Accept", "application/json")

	return c.do(req, op, decode)
}

// do sends req and decodes a 2xx body. Every failure past request
// construction is a *TransportError.
func (c *SalesClient) do(req *http.Request, op string, decode func(io.Reader) error) error {
	start := time.Now()
	if c.logger != nil {
		c.logger.Info(req.Method, "endpoint", req.URL.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "endpoint", req.URL.String(), "error", err)
		}
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug("Response", "endpoint", req.URL.Path, "status", resp.StatusCode, "duration", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.Body)
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "response", msg)
		}
		return &TransportError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if err := decode(resp.Body); err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to decode response", "endpoint", req.URL.Path, "error", err)
		}
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
