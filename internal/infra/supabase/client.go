package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrObjectExists reports an upload rejected because the key is taken.
// Uploads never overwrite: x-upsert stays off.
var ErrObjectExists = errors.New("object already exists")

// Client talks to one Supabase project: PostgREST tables plus one storage
// bucket. All calls are attempted exactly once.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	http       *http.Client
}

func New(baseURL, serviceKey, bucket string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		http:       httpClient,
	}
}

func (c *Client) Bucket() string { return c.bucket }

func (c *Client) Upload(ctx context.Context, key, contentType string, data []byte) error {
	urlStr := c.baseURL + "/storage/v1/object/" + c.bucket + "/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, urlStr, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return ErrObjectExists
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("storage", resp)
	}
	return nil
}

func (c *Client) PublicURL(key string) string {
	return c.baseURL + "/storage/v1/object/public/" + c.bucket + "/" + url.PathEscape(key)
}

// Remove deletes objects by key. Missing keys are not an error; the store
// treats deletion as idempotent.
func (c *Client) Remove(ctx context.Context, keys []string) error {
	body, err := json.Marshal(map[string]interface{}{"prefixes": keys})
	if err != nil {
		return err
	}
	urlStr := c.baseURL + "/storage/v1/object/" + c.bucket
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, urlStr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return statusError("storage", resp)
	}
	return nil
}

func (c *Client) Select(ctx context.Context, table string, query url.Values, out interface{}) error {
	urlStr := c.baseURL + "/rest/v1/" + table + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("supabase", resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Insert posts one row. When out is non-nil the inserted representation is
// requested and decoded into it (PostgREST returns an array).
func (c *Client) Insert(ctx context.Context, table string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	urlStr := c.baseURL + "/rest/v1/" + table
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if out != nil {
		req.Header.Set("Prefer", "return=representation")
	} else {
		req.Header.Set("Prefer", "return=minimal")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("supabase", resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Update(ctx context.Context, table string, id int64, patch interface{}) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	values := url.Values{}
	values.Set("id", "eq."+strconv.FormatInt(id, 10))
	urlStr := c.baseURL + "/rest/v1/" + table + "?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, urlStr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError("supabase", resp)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, table string, id int64) error {
	values := url.Values{}
	values.Set("id", "eq."+strconv.FormatInt(id, 10))
	urlStr := c.baseURL + "/rest/v1/" + table + "?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, urlStr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError("supabase", resp)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}

func statusError(service string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("%s status %d: %s", service, resp.StatusCode, strings.TrimSpace(string(msg)))
}
