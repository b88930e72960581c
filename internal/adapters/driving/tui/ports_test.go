package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil ports", nil, ErrInvalidPorts},
		{"missing retrieval", &Ports{QA: &mockQA{}}, ErrMissingRetrievalService},
		{"retrieval only", &Ports{Retrieval: &mockRetrieval{}}, nil},
		{"all ports", &Ports{Retrieval: &mockRetrieval{}, QA: &mockQA{}, Document: &mockDocuments{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
