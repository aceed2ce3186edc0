package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipestudio/pipestudio/pkg/models"
)

// allowed mirrors the documented rule set: identity for every type except
// a "none" target, plus the explicit cross-type table.
func allowed(source, target models.DataType) bool {
	if target == models.DataTypeNone {
		return false
	}

	if source == target {
		return true
	}

	table := []struct{ s, t models.DataType }{
		{models.DataTypeRawDocuments, models.DataTypeNormalizedDocuments},
		{models.DataTypeRawDocuments, models.DataTypeEnrichedDocuments},
		{models.DataTypeRawDocuments, models.DataTypeChunks},
		{models.DataTypeNormalizedDocuments, models.DataTypeEnrichedDocuments},
		{models.DataTypeNormalizedDocuments, models.DataTypeChunks},
		{models.DataTypeEnrichedDocuments, models.DataTypeChunks},
		{models.DataTypeChunks, models.DataTypeEmbeddings},
		{models.DataTypeEmbeddings, models.DataTypeVectors},
		{models.DataTypeSearchResults, models.DataTypeRerankedResults},
		{models.DataTypeRerankedResults, models.DataTypeSearchResults},
		{models.DataTypeQuery, models.DataTypeQueryEmbeddings},
		{models.DataTypeQuery, models.DataTypeChunks},
		{models.DataTypeQuery, models.DataTypeEmbeddings},
		{models.DataTypeQueryEmbeddings, models.DataTypeSearchResults},
		{models.DataTypeEmbeddings, models.DataTypeSearchResults},
	}

	for _, entry := range table {
		if entry.s == source && entry.t == target {
			return true
		}
	}

	return false
}

func TestCanConnect_AllPairs(t *testing.T) {
	for _, source := range models.AllDataTypes() {
		for _, target := range models.AllDataTypes() {
			got := CanConnect(source, target)
			want := allowed(source, target)

			assert.Equal(t, want, got, "CanConnect(%s, %s)", source, target)
		}
	}
}

func TestCanConnect_RejectsNoneTarget(t *testing.T) {
	for _, source := range models.AllDataTypes() {
		assert.False(t, CanConnect(source, models.DataTypeNone),
			"%s -> none must be rejected", source)
	}
}

func TestCanConnect_Identity(t *testing.T) {
	for _, dt := range models.AllDataTypes() {
		if dt == models.DataTypeNone {
			continue
		}

		assert.True(t, CanConnect(dt, dt), "%s -> %s", dt, dt)
	}
}

func TestCanConnect_NoTransitiveClosure(t *testing.T) {
	// chunks -> embeddings and embeddings -> vectors are both legal, but
	// the chained pair is not.
	assert.True(t, CanConnect(models.DataTypeChunks, models.DataTypeEmbeddings))
	assert.True(t, CanConnect(models.DataTypeEmbeddings, models.DataTypeVectors))
	assert.False(t, CanConnect(models.DataTypeChunks, models.DataTypeVectors))

	// raw_documents -> chunks -> embeddings must not imply a direct edge.
	assert.False(t, CanConnect(models.DataTypeRawDocuments, models.DataTypeEmbeddings))
}

func TestCanConnect_RerankBridgeIsBidirectional(t *testing.T) {
	assert.True(t, CanConnect(models.DataTypeSearchResults, models.DataTypeRerankedResults))
	assert.True(t, CanConnect(models.DataTypeRerankedResults, models.DataTypeSearchResults))
}
