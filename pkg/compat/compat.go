// Package compat decides which data types may be wired together on the
// canvas. It is the single source of truth for edge legality.
package compat

import "github.com/pipestudio/pipestudio/pkg/models"

type pair struct {
	source models.DataType
	target models.DataType
}

// compatible holds every explicitly allowed cross-type connection. The
// entries encode deliberate stage skips and cross-stage bridges; pairs are
// never inferred by chaining entries together.
var compatible = map[pair]struct{}{
	{models.DataTypeRawDocuments, models.DataTypeNormalizedDocuments}: {},
	{models.DataTypeRawDocuments, models.DataTypeEnrichedDocuments}:   {},
	{models.DataTypeRawDocuments, models.DataTypeChunks}:              {},
	{models.DataTypeNormalizedDocuments, models.DataTypeEnrichedDocuments}: {},
	{models.DataTypeNormalizedDocuments, models.DataTypeChunks}:            {},
	{models.DataTypeEnrichedDocuments, models.DataTypeChunks}:              {},
	{models.DataTypeChunks, models.DataTypeEmbeddings}:                     {},
	{models.DataTypeEmbeddings, models.DataTypeVectors}:                    {},
	// Both directions are intentional: reranked results may be consumed as
	// plain search results by stages that do not care about rank order.
	{models.DataTypeSearchResults, models.DataTypeRerankedResults}: {},
	{models.DataTypeRerankedResults, models.DataTypeSearchResults}: {},
	{models.DataTypeQuery, models.DataTypeQueryEmbeddings}:         {},
	{models.DataTypeQuery, models.DataTypeChunks}:                  {},
	{models.DataTypeQuery, models.DataTypeEmbeddings}:              {},
	{models.DataTypeQueryEmbeddings, models.DataTypeSearchResults}: {},
	{models.DataTypeEmbeddings, models.DataTypeSearchResults}:      {},
	{models.DataTypeSearchResults, models.DataTypeNone}:            {},
	{models.DataTypeRerankedResults, models.DataTypeNone}:          {},
}

// CanConnect reports whether an edge from a port producing source to a port
// consuming target is legal. Rules apply in order: a "none" target is
// always rejected, identical types always connect, everything else is
// looked up in the compatibility table.
func CanConnect(source, target models.DataType) bool {
	if target == models.DataTypeNone {
		return false
	}

	if source == target {
		return true
	}

	_, ok := compatible[pair{source, target}]

	return ok
}
