package mkm

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
	"unicode/utf8"

	"github.com/mkmtools/mkmprice/internal/metrics"
	"github.com/mkmtools/mkmprice/pkg/logger"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

const defaultBaseURL = "https://api.cardmarket.com/ws/v2.0/output.json"

// Client is the Cardmarket API gateway. All operations block until the
// response (or, for paginated reads, the whole multi-page fetch) completes;
// there is no concurrency in the request path.
type Client struct {
	signer      *Signer
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithClientHTTPClient overrides the default HTTP client. The replacement
// must not follow redirects: the pagination protocol interprets 307 itself.
func WithClientHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimiter injects a rate limiter that paces every request and
// records the advisory quota headers.
func WithRateLimiter(r *RateLimiter) ClientOption {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Cardmarket API client signing requests with signer.
func NewClient(signer *Signer, opts ...ClientOption) *Client {
	c := &Client{
		signer:  signer,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response is the raw outcome of one API request.
type response struct {
	StatusCode int
	Body       []byte
	Total      int // from Content-Range; TotalUnknown when absent
}

// do issues one signed request. Query parameters must be on the URL before
// signing since they participate in the OAuth signature.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) (*response, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	metrics.APICallsTotal.Inc()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = strings.NewReader(string(body))
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if err := c.signer.Sign(req); err != nil {
		return nil, fmt.Errorf("signing request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.recordQuota(resp.Header)

	return &response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Total:      parseContentRange(resp.Header.Get("Content-Range")),
	}, nil
}

// recordQuota reads the advisory request-quota headers when present.
func (c *Client) recordQuota(h http.Header) {
	used, err1 := strconv.ParseInt(h.Get("X-Request-Limit-Count"), 10, 64)
	limit, err2 := strconv.ParseInt(h.Get("X-Request-Limit-Max"), 10, 64)
	if err1 != nil || err2 != nil {
		return
	}
	if c.rateLimiter != nil {
		c.rateLimiter.RecordQuota(used, limit)
	}
	metrics.QuotaUsed.Set(float64(used))
	metrics.QuotaLimit.Set(float64(limit))
}

// parseContentRange extracts the declared total from a range header of the
// form ".../<total>". Returns TotalUnknown when absent or malformed.
func parseContentRange(h string) int {
	i := strings.LastIndex(h, "/")
	if i < 0 {
		return TotalUnknown
	}
	total, err := strconv.Atoi(h[i+1:])
	if err != nil {
		return TotalUnknown
	}
	return total
}

// decodeOK enforces the single-page contract: 200 decodes into dst, 204 and
// 404 mean no results, anything else is a RemoteError.
func (c *Client) decodeOK(resp *response, dst any) error {
	switch resp.StatusCode {
	case http.StatusOK:
		if len(resp.Body) == 0 {
			return ErrNoResults
		}
		if err := json.Unmarshal(resp.Body, dst); err != nil {
			return fmt.Errorf("%w: malformed response body", ErrNoResults)
		}
		return nil
	case http.StatusNoContent, http.StatusNotFound:
		return ErrNoResults
	default:
		metrics.APIErrorsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		return &RemoteError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
}

// GetProduct returns a product record including its price guide and rarity.
func (c *Client) GetProduct(ctx context.Context, productID int) (*domain.Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/products/"+strconv.Itoa(productID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	var env productEnvelope
	if err := c.decodeOK(resp, &env); err != nil {
		return nil, err
	}
	return toProduct(&env.Product), nil
}

// GetAccount returns the acting user's account record.
func (c *Client) GetAccount(ctx context.Context) (*domain.Account, error) {
	resp, err := c.do(ctx, http.MethodGet, "/account", nil, nil, "")
	if err != nil {
		return nil, err
	}
	var env accountEnvelope
	if err := c.decodeOK(resp, &env); err != nil {
		return nil, err
	}
	return toAccount(&env.Account), nil
}

// GetStock retrieves the user's complete stock. The endpoint pages by 100
// and redirects the first, offset-free request.
func (c *Client) GetStock(ctx context.Context) ([]domain.Article, error) {
	pager := NewPaginator[wireArticle](StockPageSize, WithPaginatorLogger[wireArticle](c.logger))

	items, err := pager.FetchAll(ctx, NoOffset, func(ctx context.Context, offset, _ int) (*Page[wireArticle], error) {
		path := "/stock"
		if offset != NoOffset {
			path += "/" + strconv.Itoa(offset)
		}
		resp, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
		if err != nil {
			return nil, err
		}
		return articlePage(resp)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching stock: %w", err)
	}
	return toArticles(items), nil
}

// GetArticles retrieves every current listing for a product, narrowed by
// filter. The endpoint pages by 1000.
func (c *Client) GetArticles(ctx context.Context, productID int, filter ArticleFilter) ([]domain.Article, error) {
	pager := NewPaginator[wireArticle](ArticlePageSize, WithPaginatorLogger[wireArticle](c.logger))

	items, err := pager.FetchAll(ctx, 0, func(ctx context.Context, offset, limit int) (*Page[wireArticle], error) {
		query := filter.values()
		query.Set("start", strconv.Itoa(offset))
		query.Set("maxResults", strconv.Itoa(limit))
		resp, err := c.do(ctx, http.MethodGet, "/articles/"+strconv.Itoa(productID), query, nil, "")
		if err != nil {
			return nil, err
		}
		return articlePage(resp)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching articles for product %d: %w", productID, err)
	}
	return toArticles(items), nil
}

// FindUserArticles retrieves every listing a given user has for sale.
func (c *Client) FindUserArticles(ctx context.Context, userID string, filter ArticleFilter) ([]domain.Article, error) {
	pager := NewPaginator[wireArticle](ArticlePageSize, WithPaginatorLogger[wireArticle](c.logger))

	items, err := pager.FetchAll(ctx, 0, func(ctx context.Context, offset, limit int) (*Page[wireArticle], error) {
		query := filter.values()
		query.Set("start", strconv.Itoa(offset))
		query.Set("maxResults", strconv.Itoa(limit))
		resp, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/articles", query, nil, "")
		if err != nil {
			return nil, err
		}
		return articlePage(resp)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching articles for user %s: %w", userID, err)
	}
	return toArticles(items), nil
}

// GetOrders retrieves orders for an actor ("seller" or "buyer") in a given
// state, using the stock-style pagination (page 100, first request bare).
func (c *Client) GetOrders(ctx context.Context, actor, state string) ([]domain.Order, error) {
	pager := NewPaginator[wireOrder](StockPageSize, WithPaginatorLogger[wireOrder](c.logger))

	items, err := pager.FetchAll(ctx, NoOffset, func(ctx context.Context, offset, _ int) (*Page[wireOrder], error) {
		path := "/orders/" + url.PathEscape(actor) + "/" + url.PathEscape(state)
		if offset != NoOffset {
			path += "/" + strconv.Itoa(offset)
		}
		resp, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
		if err != nil {
			return nil, err
		}
		var env ordersEnvelope
		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusPartialContent {
			if err := json.Unmarshal(resp.Body, &env); err != nil {
				return nil, fmt.Errorf("parsing orders response: %w", err)
			}
		}
		return &Page[wireOrder]{
			Records:    env.Order,
			StatusCode: resp.StatusCode,
			Total:      resp.Total,
			Body:       resp.Body,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s orders: %w", actor, state, err)
	}
	return toOrders(items), nil
}

// FindProduct searches products by free text. Exact matching is forced for
// queries shorter than four characters, which the upstream would otherwise
// reject as too broad.
func (c *Client) FindProduct(ctx context.Context, query string, filter SearchFilter) ([]domain.Product, error) {
	params := filter.values()
	params.Set("search", query)
	if utf8.RuneCountInString(query) < 4 {
		params.Set("exact", "true")
	}

	resp, err := c.do(ctx, http.MethodGet, "/products/find", params, nil, "")
	if err != nil {
		return nil, err
	}
	var env productListEnvelope
	if err := c.decodeOK(resp, &env); err != nil {
		return nil, err
	}
	return toProducts(env.Product), nil
}

// FindStockArticles searches the user's own stock by product name.
func (c *Client) FindStockArticles(ctx context.Context, name string, gameID int) ([]domain.Article, error) {
	path := "/stock/articles/" + url.PathEscape(name) + "/" + strconv.Itoa(gameID)
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return nil, err
	}
	var env articlesEnvelope
	if err := c.decodeOK(resp, &env); err != nil {
		return nil, err
	}
	return toArticles(env.Article), nil
}

// GetWantslists returns the user's saved wantslists.
func (c *Client) GetWantslists(ctx context.Context) ([]domain.Wantslist, error) {
	resp, err := c.do(ctx, http.MethodGet, "/wantslist", nil, nil, "")
	if err != nil {
		return nil, err
	}
	var env wantslistEnvelope
	if err := c.decodeOK(resp, &env); err != nil {
		return nil, err
	}
	return toWantslists(env.Wantslist), nil
}

// SetVacationStatus turns vacation mode on or off.
func (c *Client) SetVacationStatus(ctx context.Context, onVacation bool) (*domain.Account, error) {
	params := url.Values{}
	params.Set("onVacation", strconv.FormatBool(onVacation))

	resp, err := c.do(ctx, http.MethodPut, "/account/vacation", params, nil, "")
	if err != nil {
		return nil, err
	}
	var env accountEnvelope
	if err := c.decodeOK(resp, &env); err != nil {
		return nil, err
	}
	return toAccount(&env.Account), nil
}

// SetDisplayLanguage sets the account's display language.
func (c *Client) SetDisplayLanguage(ctx context.Context, languageID int) error {
	params := url.Values{}
	params.Set("idDisplayLanguage", strconv.Itoa(languageID))

	resp, err := c.do(ctx, http.MethodPut, "/account/language", params, nil, "")
	if err != nil {
		return err
	}
	var env accountEnvelope
	return c.decodeOK(resp, &env)
}

// ChunkResult is the outcome of submitting one write chunk. Chunks go out
// strictly in order; a failed chunk does not stop later ones, so callers can
// see exactly which record offsets were committed.
type ChunkResult struct {
	Offset int
	Size   int
	Err    error
}

// AddStock inserts new stock articles in chunks of at most 100.
func (c *Client) AddStock(ctx context.Context, entries []StockUpsert) ([]ChunkResult, error) {
	return c.writeStock(ctx, http.MethodPost, entries)
}

// SetStock updates existing stock articles (price, count) in chunks of at
// most 100.
func (c *Client) SetStock(ctx context.Context, entries []StockUpsert) ([]ChunkResult, error) {
	return c.writeStock(ctx, http.MethodPut, entries)
}

// DeleteStock removes stock articles by ID in chunks of at most 100.
func (c *Client) DeleteStock(ctx context.Context, articleIDs []int) ([]ChunkResult, error) {
	var results []ChunkResult
	for offset := 0; offset < len(articleIDs); offset += WriteChunkSize {
		end := min(offset+WriteChunkSize, len(articleIDs))
		body, err := buildDeleteXML(articleIDs[offset:end])
		if err != nil {
			return results, fmt.Errorf("building delete payload: %w", err)
		}
		results = append(results, c.submitChunk(ctx, http.MethodDelete, offset, end-offset, body))
	}
	return results, nil
}

func (c *Client) writeStock(ctx context.Context, method string, entries []StockUpsert) ([]ChunkResult, error) {
	var results []ChunkResult
	for offset := 0; offset < len(entries); offset += WriteChunkSize {
		end := min(offset+WriteChunkSize, len(entries))
		body, err := buildStockXML(entries[offset:end])
		if err != nil {
			return results, fmt.Errorf("building stock payload: %w", err)
		}
		results = append(results, c.submitChunk(ctx, method, offset, end-offset, body))
	}
	return results, nil
}

func (c *Client) submitChunk(ctx context.Context, method string, offset, size int, body []byte) ChunkResult {
	result := ChunkResult{Offset: offset, Size: size}

	resp, err := c.do(ctx, method, "/stock", nil, body, "application/xml")
	if err != nil {
		result.Err = err
		return result
	}
	if resp.StatusCode != http.StatusOK {
		metrics.APIErrorsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		result.Err = &RemoteError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	if result.Err != nil {
		c.logger.Warn("stock write chunk failed",
			"method", method, "offset", offset, "size", size, "err", result.Err)
	}
	return result
}

// articlePage interprets a raw response as a page of articles for the
// paginator. Bodies are only decoded on the statuses that carry records.
func articlePage(resp *response) (*Page[wireArticle], error) {
	var env articlesEnvelope
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusPartialContent {
		if err := json.Unmarshal(resp.Body, &env); err != nil {
			return nil, fmt.Errorf("parsing articles response: %w", err)
		}
	}
	return &Page[wireArticle]{
		Records:    env.Article,
		StatusCode: resp.StatusCode,
		Total:      resp.Total,
		Body:       resp.Body,
	}, nil
}
