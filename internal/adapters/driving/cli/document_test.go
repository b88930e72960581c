package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func TestDocumentCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range documentCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "get", "content", "delete"}, names)
}

func TestDocumentCmd_NoService(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()
	documentService = nil

	for _, args := range [][]string{
		{"document", "list"},
		{"document", "get", "doc-1"},
		{"document", "content", "doc-1"},
		{"document", "delete", "doc-1"},
	} {
		_, err := executeCommand(args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "document service not configured")
	}
}

func TestDocumentListCmd(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	out, err := executeCommand("document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents indexed.")

	docID := ingestText(t, "notes.txt", "Some notes worth keeping.")

	out, err = executeCommand("document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "FILENAME")
	assert.Contains(t, out, docID)
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "1 document(s)")
}

func TestDocumentListCmd_JSON(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	docID := ingestText(t, "notes.txt", "Some notes worth keeping.")

	out, err := executeCommand("document", "list", "--json")
	require.NoError(t, err)

	var docs []domain.DocumentSummary
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, docID, docs[0].DocumentID)
	assert.Equal(t, 1, docs[0].TotalChunks)
	assert.Len(t, docs[0].ContentHash, 64)
}

func TestDocumentGetCmd(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	docID := ingestText(t, "notes.txt", "Some notes worth keeping.")

	out, err := executeCommand("document", "get", docID)
	require.NoError(t, err)
	assert.Contains(t, out, docID+"  notes.txt")
	assert.Contains(t, out, "1 chunk(s)")
	assert.Contains(t, out, "#0  Some notes worth keeping.")

	out, err = executeCommand("document", "get", "--json", docID)
	require.NoError(t, err)
	var doc domain.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, docID, doc.ID)
	require.Len(t, doc.Chunks, 1)
	assert.Nil(t, doc.Chunks[0].Embedding)
}

func TestDocumentGetCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	_, err := executeCommand("document", "get", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentContentCmd(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	docID := ingestText(t, "notes.txt", "Some notes worth keeping.")

	out, err := executeCommand("document", "content", docID)

	require.NoError(t, err)
	assert.Equal(t, "Some notes worth keeping.\n", out)
}

func TestDocumentDeleteCmd(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	docID := ingestText(t, "notes.txt", "Some notes worth keeping.")

	out, err := executeCommand("document", "rm", docID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed "+docID+" (1 chunk(s)).")

	_, err = executeCommand("document", "delete", docID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentDeleteCmd_JSON(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	docID := ingestText(t, "notes.txt", "Some notes worth keeping.")

	out, err := executeCommand("doc", "delete", "--json", docID)
	require.NoError(t, err)

	var got struct {
		DocumentID    string `json:"document_id"`
		DeletedChunks int    `json:"deleted_chunks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, docID, got.DocumentID)
	assert.Equal(t, 1, got.DeletedChunks)
}
