package covers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/hotker/blogcollector/internal/retry"
)

// Uploader pushes generated image bytes to the hosting endpoint and
// returns the public URL.
type Uploader struct {
	uploadURL  string
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
}

func NewUploader(uploadURL, baseURL string, client *http.Client, retryCfg retry.Config) *Uploader {
	return &Uploader{
		uploadURL:  uploadURL,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		retryCfg:   retryCfg,
	}
}

func (u *Uploader) Upload(ctx context.Context, data []byte) (string, error) {
	var src string

	err := retry.WithRetry(ctx, u.retryCfg, func() error {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "cover.png")
		if err != nil {
			return retry.Permanent(err)
		}
		if _, err := part.Write(data); err != nil {
			return retry.Permanent(err)
		}
		if err := writer.Close(); err != nil {
			return retry.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := u.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("upload error: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Permanent(fmt.Errorf("upload error: status %d", resp.StatusCode))
		}

		parsed, err := ParseUploadResponse(payload)
		if err != nil {
			return retry.Permanent(err)
		}
		src = parsed
		return nil
	})
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(src, "http") {
		return src, nil
	}
	if !strings.HasPrefix(src, "/") {
		src = "/" + src
	}
	return u.baseURL + src, nil
}

type uploadEntry struct {
	Src string `json:"src"`
	URL string `json:"url"`
}

// ParseUploadResponse tolerates the response shapes the hosting service
// has used over time: a bare array of entries, an object with src/url
// directly (including the status-flag-plus-url shape), or entries nested
// under a data object or array. First non-empty result wins.
func ParseUploadResponse(payload []byte) (string, error) {
	var list []uploadEntry
	if err := json.Unmarshal(payload, &list); err == nil {
		for _, e := range list {
			if s := e.pick(); s != "" {
				return s, nil
			}
		}
	}

	var direct struct {
		uploadEntry
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &direct); err == nil {
		if s := direct.pick(); s != "" {
			return s, nil
		}
		if len(direct.Data) > 0 {
			var nested uploadEntry
			if err := json.Unmarshal(direct.Data, &nested); err == nil {
				if s := nested.pick(); s != "" {
					return s, nil
				}
			}
			var nestedList []uploadEntry
			if err := json.Unmarshal(direct.Data, &nestedList); err == nil {
				for _, e := range nestedList {
					if s := e.pick(); s != "" {
						return s, nil
					}
				}
			}
		}
	}

	return "", fmt.Errorf("upload response has no usable src/url")
}

func (e uploadEntry) pick() string {
	if e.Src != "" {
		return e.Src
	}
	return e.URL
}
