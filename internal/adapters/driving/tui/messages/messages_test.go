package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	views := []ViewType{ViewMenu, ViewQuery, ViewAsk, ViewDocuments, ViewDocContent, ViewHelp}

	seen := make(map[string]bool, len(views))
	for _, v := range views {
		assert.NotEmpty(t, v.String())
		assert.False(t, seen[v.String()], "duplicate name %q", v)
		seen[v.String()] = true
	}
	assert.Equal(t, "doc_content", ViewDocContent.String())
}
