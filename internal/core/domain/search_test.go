package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletenessReport_JSONShape(t *testing.T) {
	report := CompletenessReport{
		DocumentID: "doc-1",
		Covered:    []string{"cats"},
		Missing:    []string{"birds"},
		Coverage:   50,
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "doc-1", decoded["document_id"])
	assert.Equal(t, 50.0, decoded["coverage"])
	assert.Contains(t, decoded, "covered")
	assert.Contains(t, decoded, "missing")
}

func TestIngestResult_JSONHidesInternalFields(t *testing.T) {
	data, err := json.Marshal(IngestResult{
		DocumentID:  "doc-1",
		Filename:    "a.txt",
		TotalChunks: 2,
		SampleChunk: "hello",
		Duplicate:   true,
		State:       IngestDone,
	})
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"document_id":"doc-1","filename":"a.txt","total_chunks":2,"sample_chunk":"hello"}`,
		string(data))
}

func TestIngestResult_Response(t *testing.T) {
	t.Run("new document", func(t *testing.T) {
		result := &IngestResult{DocumentID: "doc-1", Filename: "a.txt", TotalChunks: 1, SampleChunk: "hi"}

		data, err := json.Marshal(result.Response())
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"document_id":"doc-1","filename":"a.txt","total_chunks":1,"sample_chunk":"hi"}`,
			string(data))
	})

	t.Run("duplicate", func(t *testing.T) {
		result := &IngestResult{DocumentID: "doc-1", Filename: "b.txt", Duplicate: true}

		data, err := json.Marshal(result.Response())
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"message":"already ingested","document_id":"doc-1","filename":"b.txt"}`,
			string(data))
	})
}
