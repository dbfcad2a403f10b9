package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/awardsbot/httpapi"
	"github.com/m3rciful/awardsbot/voting"
	"github.com/m3rciful/awardsbot/voting/votingtest"
)

func newServer(t *testing.T) (*voting.Store, *httptest.Server) {
	t.Helper()
	store := voting.NewStore(votingtest.NewDB(t))
	require.NoError(t, store.Seed(context.Background()))
	srv := httptest.NewServer(httpapi.NewRouter(store, ""))
	t.Cleanup(srv.Close)
	return store, srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	_, srv := newServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCategories(t *testing.T) {
	_, srv := newServer(t)

	var out struct {
		Success    bool              `json:"success"`
		Categories []voting.Category `json:"categories"`
	}
	code := getJSON(t, srv.URL+"/api/categories", &out)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, out.Success)
	require.Len(t, out.Categories, len(voting.SeedCategories))
	assert.Equal(t, "Best Dresser Award", out.Categories[0].Name)
	assert.Equal(t, 1, out.Categories[0].DisplayOrder)
}

func TestVotingStatus(t *testing.T) {
	store, srv := newServer(t)

	var out struct {
		Success bool `json:"success"`
		IsOpen  bool `json:"isOpen"`
	}
	code := getJSON(t, srv.URL+"/api/voting-status", &out)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, out.IsOpen)

	_, err := store.ToggleVoting(context.Background())
	require.NoError(t, err)

	code = getJSON(t, srv.URL+"/api/voting-status", &out)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, out.IsOpen)
}

func TestSubmitVotesValidation(t *testing.T) {
	_, srv := newServer(t)

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	code := postJSON(t, srv.URL+"/api/vote", map[string]any{
		"voterName": "Jane Doe",
	}, &out)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, out.Success)
	assert.Equal(t, "Missing required fields", out.Error)
}

func TestSubmitVotesClosed(t *testing.T) {
	store, srv := newServer(t)
	_, err := store.ToggleVoting(context.Background())
	require.NoError(t, err)

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	code := postJSON(t, srv.URL+"/api/vote", map[string]any{
		"voterName":  "Jane Doe",
		"voterEmail": "jane@corp.test",
		"votes":      []map[string]any{{"categoryId": 1, "nomineeName": "Bob"}},
	}, &out)

	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Voting is currently closed", out.Error)

	votes, err := store.VoterVotes(context.Background(), voting.WebIdentity("jane@corp.test"))
	require.NoError(t, err)
	assert.Empty(t, votes, "rejected closed-voting submission must leave no rows")
}

func TestSubmitVotesBatchPartialFailure(t *testing.T) {
	store, srv := newServer(t)

	// Pre-existing vote in category 1 by the same email.
	require.NoError(t, store.SubmitVote(context.Background(), voting.Vote{
		CategoryID: 1,
		VoterName:  "Jane Doe",
		Identity:   voting.WebIdentity("jane@corp.test"),
		Nominee:    "Bob",
	}))

	var out struct {
		Success bool `json:"success"`
		Results []struct {
			CategoryID int64 `json:"categoryId"`
			Success    bool  `json:"success"`
		} `json:"results"`
		Errors []struct {
			CategoryID int64  `json:"categoryId"`
			Error      string `json:"error"`
		} `json:"errors"`
	}
	code := postJSON(t, srv.URL+"/api/vote", map[string]any{
		"voterName":  "Jane Doe",
		"voterEmail": "Jane@Corp.Test",
		"votes": []map[string]any{
			{"categoryId": 1, "nomineeName": "Alice"},
			{"categoryId": 2, "nomineeName": "Alice"},
		},
	}, &out)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, out.Success)
	require.Len(t, out.Results, 1)
	assert.Equal(t, int64(2), out.Results[0].CategoryID)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, int64(1), out.Errors[0].CategoryID)
	assert.Contains(t, out.Errors[0].Error, "already voted")
}

func TestAdminVerify(t *testing.T) {
	_, srv := newServer(t)

	var out struct {
		Success bool `json:"success"`
		IsValid bool `json:"isValid"`
	}
	code := postJSON(t, srv.URL+"/api/admin/verify",
		map[string]any{"password": voting.DefaultAdminPassword}, &out)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, out.IsValid)

	code = postJSON(t, srv.URL+"/api/admin/verify",
		map[string]any{"password": "nope"}, &out)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, out.IsValid)
}

func TestAdminResultsIncludesEmptyCategories(t *testing.T) {
	store, srv := newServer(t)

	require.NoError(t, store.SubmitVote(context.Background(), voting.Vote{
		CategoryID: 1,
		VoterName:  "Jane Doe",
		Identity:   voting.WebIdentity("jane@corp.test"),
		Nominee:    "Bob",
	}))

	var out struct {
		Success bool                             `json:"success"`
		Results map[string][]voting.NomineeCount `json:"results"`
	}
	code := getJSON(t, srv.URL+"/api/admin/results", &out)

	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out.Results, len(voting.SeedCategories))
	require.Len(t, out.Results["Best Dresser Award"], 1)
	assert.Equal(t, "Bob", out.Results["Best Dresser Award"][0].Nominee)
	// Untouched categories are present with an empty list, not missing.
	empty, ok := out.Results["Team Player Award"]
	require.True(t, ok)
	assert.Empty(t, empty)
}

func TestAdminToggle(t *testing.T) {
	_, srv := newServer(t)

	var out struct {
		Success bool `json:"success"`
		IsOpen  bool `json:"isOpen"`
	}
	code := postJSON(t, srv.URL+"/api/admin/toggle-voting", nil, &out)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, out.IsOpen)

	code = postJSON(t, srv.URL+"/api/admin/toggle-voting", nil, &out)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, out.IsOpen)
}

func TestVoterVotes(t *testing.T) {
	store, srv := newServer(t)

	require.NoError(t, store.SubmitVote(context.Background(), voting.Vote{
		CategoryID: 2,
		VoterName:  "Jane Doe",
		Identity:   voting.WebIdentity("jane@corp.test"),
		Nominee:    "Bob",
	}))

	var out struct {
		Success bool               `json:"success"`
		Votes   []voting.VoterVote `json:"votes"`
	}
	code := getJSON(t, srv.URL+"/api/voter-votes/jane@corp.test", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out.Votes, 1)
	assert.Equal(t, int64(2), out.Votes[0].CategoryID)
	assert.Equal(t, "Bob", out.Votes[0].Nominee)

	// Unknown voters get an empty list, not null.
	code = getJSON(t, srv.URL+"/api/voter-votes/nobody@corp.test", &out)
	assert.Equal(t, http.StatusOK, code)
	assert.NotNil(t, out.Votes)
	assert.Empty(t, out.Votes)
}
