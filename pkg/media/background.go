package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BackgroundRemover strips the background from an image and returns PNG bytes.
type BackgroundRemover interface {
	Remove(ctx context.Context, image []byte) ([]byte, error)
}

type httpBackgroundRemover struct {
	endpoint string
	client   *http.Client
}

// NewHTTPBackgroundRemover posts the raw image to endpoint and expects the
// processed PNG as the response body.
func NewHTTPBackgroundRemover(endpoint string, timeout time.Duration) BackgroundRemover {
	return &httpBackgroundRemover{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (r *httpBackgroundRemover) Remove(ctx context.Context, image []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("build background removal request: %w", err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(image))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call background removal: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("background removal returned status %d", resp.StatusCode)
	}
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read background removal response: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("background removal returned empty body")
	}
	return out, nil
}
