package refdata

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/andybalholm/brotli"
)

// DefaultSourceURL serves the community export of the game's static data.
const DefaultSourceURL = "https://auxilus.xyz/eve-echoes-data/download?view=/eve-echoes-data/"

const (
	fetchTimeout = 2 * time.Minute
	maxRetries   = 3
	backoffBase  = 500 * time.Millisecond
)

type Fetcher struct {
	BaseURL string
	Client  *http.Client
	// Overwrite re-downloads files that already exist.
	Overwrite bool
}

// Fetch downloads every table missing from dir and returns the names it
// wrote.
func (f Fetcher) Fetch(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	base := f.BaseURL
	if base == "" {
		base = DefaultSourceURL
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	var written []string
	for _, name := range Files {
		dest := filepath.Join(dir, name)
		if !f.Overwrite {
			if _, err := os.Stat(dest); err == nil {
				continue
			}
		}
		var lastErr error
		for attempt := 0; attempt < maxRetries; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return written, ctx.Err()
				case <-time.After(backoffBase * time.Duration(1<<uint(attempt-1))):
				}
			}
			lastErr = download(ctx, client, base+name, dest)
			if lastErr == nil {
				break
			}
		}
		if lastErr != nil {
			return written, fmt.Errorf("%s: %w", name, lastErr)
		}
		written = append(written, name)
	}
	return written, nil
}

func download(ctx context.Context, client *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer zr.Close()
		body = zr
	case "br":
		body = brotli.NewReader(resp.Body)
	default:
		body = resp.Body
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
