package sheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hryucha/protein-catalog/models"
)

// ErrFetch marks a failure to download the sheet: a transport error or a
// non-success status. Fetch failures are worth retrying.
var ErrFetch = errors.New("sheet fetch failed")

// StatusError reports a non-2xx response from the export endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sheet export returned status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrFetch
}

// ExportURL is the public export address of a Google Sheets tab.
func ExportURL(sheetID, gid string, format Format) string {
	q := url.Values{}
	q.Set("format", string(format))
	q.Set("gid", gid)
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?%s", url.PathEscape(sheetID), q.Encode())
}

// Client downloads the product sheet and assembles it into products.
type Client struct {
	httpClient *http.Client
	url        string
	format     Format
}

// NewClient creates a client for the export at url. A nil httpClient means
// http.DefaultClient.
func NewClient(httpClient *http.Client, url string, format Format) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		url:        url,
		format:     format,
	}
}

// URL is the export address the client reads from.
func (c *Client) URL() string {
	return c.url
}

// FetchRows downloads the document and decodes it into rows. Errors wrap
// either ErrFetch or ErrParse.
func (c *Client) FetchRows(ctx context.Context) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}

	return Decode(bytes.NewReader(body), c.format)
}

// FetchProducts downloads the sheet and assembles its rows.
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := c.FetchRows(ctx)
	if err != nil {
		return nil, err
	}
	return AssembleRows(rows), nil
}
