package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendTeamDecodesMembersAndKeepsExtraFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommend-team", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["project_id"])
		_, _ = w.Write([]byte(`{"members":[{"id":"u1","position":"UX Designer","skills":["Figma"]}],"team_score":0.8,"synergy_score":0.6,"explanation":"fit"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "key", server.Client())
	rec, err := client.RecommendTeam(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, rec.Members, 1)
	assert.Equal(t, "UX Designer", rec.Members[0].Position)
	assert.InDelta(t, 0.8, rec.TeamScore, 1e-9)
	assert.JSONEq(t, `"fit"`, string(rec.Extra["explanation"]))

	encoded, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"explanation":"fit"`)
}

func TestRecommendTeamBadRequestIsNoTalentMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", server.Client()).RecommendTeam(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrNoTalentMatch)
}

func TestRecommendTeamOtherFailuresAreGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", server.Client()).RecommendTeam(context.Background(), "p1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoTalentMatch))
	assert.Contains(t, err.Error(), "502")
}

func TestRecommendTeamRejectsOversizedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"members":[],"explanation":"`))
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBytes)))
		_, _ = w.Write([]byte(`"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", server.Client()).RecommendTeam(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestRecommendTeamWithoutBaseURL(t *testing.T) {
	_, err := NewClient(" ", "", nil).RecommendTeam(context.Background(), "p1")
	assert.Error(t, err)
}
