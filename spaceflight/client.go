// Package spaceflight는 Spaceflight News API(v3)의 기사 목록/개수 조회 클라이언트입니다.
package spaceflight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mseongj/spaceflight-news/metrics"
	"github.com/mseongj/spaceflight-news/models"
)

const (
	endpointArticles = "articles"
	endpointCount    = "count"
)

// StatusError는 업스트림이 2xx가 아닌 응답을 줬을 때의 오류입니다.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spaceflight %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// ListParams는 기사 목록 요청 파라미터입니다. 빈 TitleContains, Sort는 보내지 않습니다.
type ListParams struct {
	Start         int
	Limit         int
	TitleContains string
	Sort          string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	v.Set("_start", strconv.Itoa(p.Start))
	v.Set("_limit", strconv.Itoa(p.Limit))
	if p.TitleContains != "" {
		v.Set("title_contains", p.TitleContains)
	}
	if p.Sort != "" {
		v.Set("_sort", p.Sort)
	}
	return v
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	timeout    time.Duration
	hasTimeout bool
}

type Option func(*Client)

// WithHTTPClient는 기본 http.Client를 교체합니다. nil이면 기본값을 씁니다.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout은 호출마다의 타임아웃을 설정합니다. 0이면 타임아웃이 없습니다.
// 넘겨받은 http.Client는 바꾸지 않고 복사본에 적용합니다.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// WithRateLimit은 초당 rps회로 업스트림 호출을 제한합니다. 0 이하이면 제한하지 않습니다.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 2 {
			// 목록과 개수 요청이 동시에 나가므로 최소 2
			burst = 2
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: defaultHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = defaultHTTPClient()
	}
	if c.hasTimeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// ListArticles는 GET {base}/articles 로 한 페이지 분량의 기사를 가져옵니다.
func (c *Client) ListArticles(ctx context.Context, p ListParams) ([]models.Article, error) {
	var articles []models.Article
	if err := c.getJSON(ctx, endpointArticles, "/articles", p.values(), &articles); err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return articles, nil
}

// CountArticles는 GET {base}/articles/count 로 검색어에 맞는 전체 기사 수를 가져옵니다.
func (c *Client) CountArticles(ctx context.Context, titleContains string) (int, error) {
	v := url.Values{}
	if titleContains != "" {
		v.Set("title_contains", titleContains)
	}
	var count int
	if err := c.getJSON(ctx, endpointCount, "/articles/count", v, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordUpstream(endpoint, outcome, time.Since(start))
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("spaceflight %s: rate limit: %w", endpoint, err)
		}
	}

	reqURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("spaceflight %s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spaceflight %s: request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 연결 재사용을 위해 본문은 비워 둡니다
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spaceflight %s: decode response: %w", endpoint, err)
	}

	slog.Debug("spaceflight call",
		slog.String("endpoint", endpoint),
		slog.String("url", reqURL),
		slog.Duration("duration", time.Since(start)))
	return nil
}
