// Package collabapi is a REST client for the collabhub API. Credentials are
// given once at construction; no call reads ambient session state.
package collabapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"collabhub/internal/common"
)

// Credentials authenticate every request made by a Client.
type Credentials struct {
	Token string
}

func (c Credentials) valid() bool {
	return strings.TrimSpace(c.Token) != ""
}

type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
}

func NewClient(baseURL string, creds Credentials, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		creds:      Credentials{Token: strings.TrimSpace(creds.Token)},
		httpClient: httpClient,
	}
}

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if !c.creds.valid() {
		return common.NewError(common.CodeUnauthorized, "missing credentials", nil)
	}
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("create %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// mapError turns an error response into a *common.Error. A 409 is always a
// conflict, whatever the body says.
func mapError(status int, payload []byte) error {
	var parsed errorResponse
	_ = json.Unmarshal(payload, &parsed)
	code := statusCode(status)
	if parsed.Error != "" && status != http.StatusConflict {
		code = common.Code(parsed.Error)
	}
	message := parsed.Message
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	appErr := common.NewError(code, message, errors.New(http.StatusText(status)))
	appErr.Fields = parsed.Fields
	return appErr
}

func statusCode(status int) common.Code {
	switch status {
	case http.StatusBadRequest:
		return common.CodeValidation
	case http.StatusUnauthorized:
		return common.CodeUnauthorized
	case http.StatusForbidden:
		return common.CodeForbidden
	case http.StatusNotFound:
		return common.CodeNotFound
	case http.StatusConflict:
		return common.CodeConflict
	case http.StatusUnprocessableEntity:
		return common.CodeInvalidTransition
	case http.StatusTooManyRequests:
		return common.CodeRateLimited
	case http.StatusServiceUnavailable:
		return common.CodeUnavailable
	default:
		return common.CodeInternal
	}
}
