package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/latoulicious/mtgmeta/internal/version"
)

const (
	requestTimeout = 60 * time.Second
	requestDelay   = 100 * time.Millisecond
	retryAttempts  = 3
	retryDelay     = 500 * time.Millisecond
)

func userAgent() string {
	return fmt.Sprintf("mtgmeta/%s", version.Version)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// getJSON fetches url and decodes the response body into out, retrying
// transient failures with exponential backoff.
func getJSON(client *http.Client, url string, out interface{}) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("User-Agent", userAgent())
			req.Header.Set("Accept", "application/json")

			res, err := client.Do(req)
			if err != nil {
				return err
			}
			defer res.Body.Close()

			if res.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d fetching %s", res.StatusCode, url)
			}
			return json.NewDecoder(res.Body).Decode(out)
		},
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// getFile downloads url to path, creating parent directories as needed.
func getFile(client *http.Client, url, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return retry.Do(
		func() error {
			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("User-Agent", userAgent())

			res, err := client.Do(req)
			if err != nil {
				return err
			}
			defer res.Body.Close()

			if res.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d fetching %s", res.StatusCode, url)
			}

			out, err := os.Create(path)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			defer out.Close()
			_, err = io.Copy(out, res.Body)
			return err
		},
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// writeCacheFile persists fetched data as JSON. Cache writes are
// best-effort for callers; failures surface as errors they may ignore.
func writeCacheFile(path string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}
