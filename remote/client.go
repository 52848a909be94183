// Package remote talks to the REST-ish JSON collections backing the
// dashboard: /users and /demandes. Records come back in their raw wire form;
// callers normalize them at the store boundary.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tableau/models"
	"tableau/utils"
)

// ListParams are the query parameters of a collection listing. Zero values
// are omitted from the request. A Status of "ALL" is treated as no filter.
type ListParams struct {
	Page   int
	Limit  int
	Status string
}

// Client is an HTTP client for the remote collections.
type Client struct {
	baseURL string
	http    *http.Client
	log     *utils.Logger
}

// NewClient creates a client for the collection rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, log *utils.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = utils.Log
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.WithField("component", "remote"),
	}
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" && !strings.EqualFold(p.Status, "ALL") {
		q.Set("status", strings.ToUpper(p.Status))
	}
	return q
}

// filtered reports whether a status filter is active, which turns a 404
// listing response into an empty result instead of an error.
func (p ListParams) filtered() bool {
	return p.Status != "" && !strings.EqualFold(p.Status, "ALL")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &utils.RemoteError{Message: "Something went wrong. Please try again.", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &utils.RemoteError{Message: "Something went wrong. Please try again.", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("%s %s failed: %v", method, path, err)
		return nil, &utils.RemoteError{Message: err.Error(), Err: err}
	}
	return resp, nil
}

// readError drains a non-2xx response into a RemoteError. The message is
// taken from the body's "message" or "error" field when present.
func readError(resp *http.Response) *utils.RemoteError {
	defer resp.Body.Close()

	re := &utils.RemoteError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("request failed with status code %d", resp.StatusCode),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return re
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			re.Message = body.Message
		} else if body.Error != "" {
			re.Message = body.Error
		}
	}
	return re
}

// totalCount reads the X-Total-Count header; absence returns nil and lets
// the caller fall back to page-size inference.
func totalCount(resp *http.Response) *int {
	raw := resp.Header.Get("X-Total-Count")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func decodeInto(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &utils.RemoteError{Message: "Something went wrong. Please try again.", Err: err}
	}
	return nil
}

// FetchUsers lists the user collection. The second return value is the total
// count reported by the backend, nil when the header is missing.
func (c *Client) FetchUsers(ctx context.Context, params ListParams) ([]models.RawUser, *int, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users", params.query(), nil)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, readError(resp)
	}

	count := totalCount(resp)
	var list []models.RawUser
	if err := decodeInto(resp, &list); err != nil {
		return nil, nil, err
	}
	return list, count, nil
}

// CreateUser POSTs a new user record and returns the stored raw record.
func (c *Client) CreateUser(ctx context.Context, payload any) (models.RawUser, error) {
	var created models.RawUser
	resp, err := c.do(ctx, http.MethodPost, "/users", nil, payload)
	if err != nil {
		return created, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return created, readError(resp)
	}
	err = decodeInto(resp, &created)
	return created, err
}

// FetchUser GETs a single user record by id.
func (c *Client) FetchUser(ctx context.Context, id string) (models.RawUser, error) {
	var user models.RawUser
	resp, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return user, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return user, readError(resp)
	}
	err = decodeInto(resp, &user)
	return user, err
}

// UpdateUser PUTs a user record and returns the stored raw record.
func (c *Client) UpdateUser(ctx context.Context, id string, payload any) (models.RawUser, error) {
	var updated models.RawUser
	resp, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, payload)
	if err != nil {
		return updated, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return updated, readError(resp)
	}
	err = decodeInto(resp, &updated)
	return updated, err
}

// DeleteUser removes a user record.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readError(resp)
	}
	return nil
}

// FetchDemandes lists the request collection. A 404 under an active status
// filter means the filter matched nothing and comes back as an empty result,
// not an error.
func (c *Client) FetchDemandes(ctx context.Context, params ListParams) ([]models.RawRequest, *int, error) {
	resp, err := c.do(ctx, http.MethodGet, "/demandes", params.query(), nil)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode == http.StatusNotFound && params.filtered() {
		resp.Body.Close()
		zero := 0
		return []models.RawRequest{}, &zero, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, readError(resp)
	}

	count := totalCount(resp)
	var list []models.RawRequest
	if err := decodeInto(resp, &list); err != nil {
		return nil, nil, err
	}
	return list, count, nil
}

// CreateDemande POSTs a new request record and returns the stored raw
// record; the server assigns the final id.
func (c *Client) CreateDemande(ctx context.Context, payload any) (models.RawRequest, error) {
	var created models.RawRequest
	resp, err := c.do(ctx, http.MethodPost, "/demandes", nil, payload)
	if err != nil {
		return created, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return created, readError(resp)
	}
	err = decodeInto(resp, &created)
	return created, err
}

// UpdateDemande PUTs a status transition and returns the stored raw record.
func (c *Client) UpdateDemande(ctx context.Context, id string, payload any) (models.RawRequest, error) {
	var updated models.RawRequest
	resp, err := c.do(ctx, http.MethodPut, "/demandes/"+url.PathEscape(id), nil, payload)
	if err != nil {
		return updated, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return updated, readError(resp)
	}
	err = decodeInto(resp, &updated)
	return updated, err
}

// DeleteDemande removes a request record.
func (c *Client) DeleteDemande(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/demandes/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readError(resp)
	}
	return nil
}
