package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gentlyventures/harboragent/internal/license"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

const compressionLevel = 6

type Builder interface {
	Build(ctx context.Context, baseURL string, info license.Info) ([]byte, error)
}

type builderImpl struct {
	httpClient *http.Client
}

func NewBuilder(httpClient *http.Client) Builder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &builderImpl{httpClient: httpClient}
}

// Build fetches the base archive and returns a copy with a LICENSE.txt for
// info. An existing LICENSE.txt in the base archive is replaced.
func (b *builderImpl) Build(ctx context.Context, baseURL string, info license.Info) ([]byte, error) {
	base, err := b.fetch(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	licenseText, err := license.Render(info)
	if err != nil {
		return nil, err
	}

	out, err := Personalize(base, licenseText, modTime(info))
	if err != nil {
		return nil, fmt.Errorf("personalize archive: %w", err)
	}
	return out, nil
}

func (b *builderImpl) fetch(ctx context.Context, baseURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create base archive request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch base archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch base archive: status=%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read base archive: %w", err)
	}
	return body, nil
}

// Personalize rewrites base with every entry recompressed and licenseText
// stored as LICENSE.txt.
func Personalize(base []byte, licenseText string, modified time.Time) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(base), int64(len(base)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, compressionLevel)
	})

	for _, f := range zr.File {
		if f.Name == license.FileName {
			continue
		}
		if err := copyEntry(zw, f); err != nil {
			return nil, err
		}
	}

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     license.FileName,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", license.FileName, err)
	}
	if _, err := io.WriteString(w, licenseText); err != nil {
		return nil, fmt.Errorf("write %s: %w", license.FileName, err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}

func copyEntry(zw *zip.Writer, f *zip.File) error {
	hdr := &zip.FileHeader{
		Name:     f.Name,
		Comment:  f.Comment,
		Method:   zip.Deflate,
		Modified: f.Modified,
	}
	hdr.SetMode(f.Mode())
	if f.FileInfo().IsDir() {
		hdr.Method = zip.Store
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", f.Name, err)
	}
	if hdr.Method == zip.Store {
		return nil
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("copy entry %s: %w", f.Name, err)
	}
	return nil
}

func modTime(info license.Info) time.Time {
	if d, err := time.Parse("2006-01-02", info.PurchaseDate); err == nil {
		return d
	}
	return time.Time{}
}
