// Package recommender talks to the external team recommendation service.
// Scores are opaque to this module and passed through unchanged.
package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNoTalentMatch is returned when the service answers 400: no talent fits
// the project's desired roles. Callers show it as its own state.
var ErrNoTalentMatch = errors.New("no talent match for desired roles")

const maxResponseBytes = 1 << 20

type Member struct {
	ID       string   `json:"id"`
	FullName string   `json:"fullName"`
	Position string   `json:"position"`
	Skills   []string `json:"skills"`
	Score    *float64 `json:"score,omitempty"`
}

type Recommendation struct {
	Members      []Member                   `json:"members"`
	TeamScore    float64                    `json:"team_score"`
	SynergyScore float64                    `json:"synergy_score"`
	Extra        map[string]json.RawMessage `json:"-"`
}

func (r *Recommendation) UnmarshalJSON(data []byte) error {
	type plain Recommendation
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, "members")
	delete(raw, "team_score")
	delete(raw, "synergy_score")
	if len(raw) > 0 {
		decoded.Extra = raw
	}
	*r = Recommendation(decoded)
	return nil
}

func (r Recommendation) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+3)
	for k, v := range r.Extra {
		out[k] = v
	}
	members := r.Members
	if members == nil {
		members = []Member{}
	}
	out["members"] = members
	out["team_score"] = r.TeamScore
	out["synergy_score"] = r.SynergyScore
	return json.Marshal(out)
}

type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: httpClient,
	}
}

type recommendRequest struct {
	ProjectID string `json:"project_id"`
}

func (c *HTTPClient) RecommendTeam(ctx context.Context, projectID string) (*Recommendation, error) {
	if c.baseURL == "" {
		return nil, errors.New("recommender base url not configured")
	}
	body, err := json.Marshal(recommendRequest{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("encode recommend request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommend-team", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create recommend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send recommend request: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read recommend response: %w", err)
	}
	if len(payload) > maxResponseBytes {
		return nil, fmt.Errorf("recommend response exceeds %d bytes", maxResponseBytes)
	}
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, ErrNoTalentMatch
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		message := strings.TrimSpace(string(payload))
		if message == "" {
			return nil, fmt.Errorf("recommender error: status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("recommender error: status %d: %s", resp.StatusCode, message)
	}
	var parsed Recommendation
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("decode recommend response: %w", err)
	}
	return &parsed, nil
}
