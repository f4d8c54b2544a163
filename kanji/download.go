package kanji

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/spf13/afero"
)

// Download fetches a dataset in the kanji-data layout and stores it at dst.
// The file is only replaced once the new one decodes.
func Download(ctx context.Context, c *http.Client, fs afero.Fs, url, dst string) (*Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("user-agent", "kanjidrill")

	slog.Info("download dataset", "url", url)
	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download dataset: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download dataset: %w", err)
	}
	ds, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if err := fs.MkdirAll(path.Dir(dst), 0755); err != nil {
		return nil, err
	}
	tmp := dst + ".part"
	if err := afero.WriteFile(fs, tmp, data, 0644); err != nil {
		return nil, err
	}
	if err := fs.Rename(tmp, dst); err != nil {
		fs.Remove(tmp)
		return nil, err
	}
	slog.Info("dataset saved", "path", dst, "entries", ds.Len())
	return ds, nil
}
