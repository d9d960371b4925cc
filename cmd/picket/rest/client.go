// Package rest is the picket CLI's HTTP client for picketd.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	apierr "github.com/picket-dev/picket/pkg/api/types/errors"
	apiuploads "github.com/picket-dev/picket/pkg/api/types/uploads"
)

type Client struct {
	apiRoot string
	token   string
	httpc   *http.Client
}

func New(apiRoot string, token string) *Client {
	return &Client{
		apiRoot: strings.TrimSuffix(apiRoot, "/"),
		token:   token,
		httpc:   http.DefaultClient,
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if 400 <= resp.StatusCode {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}
	return resp, nil
}

// errorFromResponse turns picketd's error envelope into an error. A
// body that is not the envelope falls back to the status text.
func errorFromResponse(resp *http.Response) error {
	envelope := apierr.ErrorResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s: %s", resp.Request.URL, resp.Status)
	}
	return fmt.Errorf("%s: %s", resp.Status, envelope.Message.String())
}

// Upload POSTs the payload as the multipart "file" field.
func (c *Client) Upload(ctx context.Context, displayName string, payload io.Reader) (apiuploads.Detail, error) {
	detail := apiuploads.Detail{}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		fw, err := mw.CreateFormFile("file", displayName)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(fw, payload); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiRoot+"/api/uploads/", pr)
	if err != nil {
		return detail, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return detail, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return detail, err
	}
	return detail, nil
}

// List GETs the principal's uploads, newest first.
func (c *Client) List(ctx context.Context) ([]apiuploads.Detail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiRoot+"/api/uploads/", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	found := []apiuploads.Detail{}
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return nil, err
	}
	return found, nil
}

// Remove DELETEs one upload by id.
func (c *Client) Remove(ctx context.Context, uploadId string) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodDelete, c.apiRoot+"/api/uploads/"+uploadId+"/", nil,
	)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// QuotaPolicy GETs the admission limits the server is configured with.
func (c *Client) QuotaPolicy(ctx context.Context) (apiuploads.QuotaPolicy, error) {
	policy := apiuploads.QuotaPolicy{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiRoot+"/api/quota/", nil)
	if err != nil {
		return policy, err
	}
	resp, err := c.do(req)
	if err != nil {
		return policy, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&policy); err != nil {
		return policy, err
	}
	return policy, nil
}

// RunCleanup POSTs one collection pass. ttl == 0 uses the server's
// configured TTL.
func (c *Client) RunCleanup(ctx context.Context, ttl time.Duration) (apiuploads.CleanupSummary, error) {
	summary := apiuploads.CleanupSummary{}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apiRoot+"/api/cleanup/"+ttlQuery(ttl), nil,
	)
	if err != nil {
		return summary, err
	}
	resp, err := c.do(req)
	if err != nil {
		return summary, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// CountExpired GETs the dry-run count of the next pass.
func (c *Client) CountExpired(ctx context.Context, ttl time.Duration) (apiuploads.ExpiredCount, error) {
	count := apiuploads.ExpiredCount{}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apiRoot+"/api/cleanup/"+ttlQuery(ttl), nil,
	)
	if err != nil {
		return count, err
	}
	resp, err := c.do(req)
	if err != nil {
		return count, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return count, err
	}
	return count, nil
}

func ttlQuery(ttl time.Duration) string {
	if ttl == 0 {
		return ""
	}
	return "?ttl=" + ttl.String()
}
