package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func TestQueryCmd_NoService(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()
	retrievalService = nil

	_, err := executeCommand("query", "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval service not configured")
}

func TestQueryCmd_EmptyIndex(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	out, err := executeCommand("query", "solar", "power")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestQueryCmd_RanksClosestFirst(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	ingestText(t, "solar.txt", "Solar panels convert sunlight into electricity.")
	ingestText(t, "bread.txt", "Knead the dough and let the bread rise overnight.")

	out, err := executeCommand("query", "solar", "panels", "sunlight")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] solar.txt")
	assert.Contains(t, out, "Solar panels convert sunlight into electricity.")
}

func TestQueryCmd_JSONAndTopK(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	ingestText(t, "a.txt", "First document about rivers.")
	ingestText(t, "b.txt", "Second document about mountains.")
	ingestText(t, "c.txt", "Third document about deserts.")

	out, err := executeCommand("query", "--json", "-k", "2", "document")
	require.NoError(t, err)

	var resp domain.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "document", resp.Query)
	assert.Equal(t, 2, resp.TopK)
	assert.Len(t, resp.Results, 2)
	assert.LessOrEqual(t, resp.Results[0].Score, resp.Results[1].Score)
}

func TestQueryCmd_DefaultTopKFromSettings(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()
	appSettings.Query.TopK = 1

	ingestText(t, "a.txt", "First document about rivers.")
	ingestText(t, "b.txt", "Second document about mountains.")

	out, err := executeCommand("query", "--json", "document")
	require.NoError(t, err)

	var resp domain.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.TopK)
	assert.Len(t, resp.Results, 1)
}
