package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// fetch downloads rawURL into memory, bounded by the configured file size
// limit and fetch timeout. A zero timeout leaves only ctx in charge.
func (x *Extractor) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if x.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.cfg.FetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, rawURL, err)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d fetching %s", ErrFetch, resp.StatusCode, rawURL)
	}

	limit := x.cfg.MaxFileSizeBytes
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, resp.ContentLength, limit)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrFetch, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrTooLarge, limit)
	}
	return body, nil
}
