// Package models defines the core domain models for pipeline graph editing.
package models

// DataType tags what flows between two pipeline stages.
type DataType string

const (
	DataTypeRawDocuments        DataType = "raw_documents"
	DataTypeNormalizedDocuments DataType = "normalized_documents"
	DataTypeEnrichedDocuments   DataType = "enriched_documents"
	DataTypeChunks              DataType = "chunks"
	DataTypeEmbeddings          DataType = "embeddings"
	DataTypeVectors             DataType = "vectors"
	DataTypeSearchResults       DataType = "search_results"
	DataTypeRerankedResults     DataType = "reranked_results"
	DataTypeQuery               DataType = "query"
	DataTypeQueryEmbeddings     DataType = "query_embeddings"
	// DataTypeNone marks a terminal output; it is never a valid connection target.
	DataTypeNone DataType = "none"
)

// AllDataTypes lists every known data type, in pipeline order.
func AllDataTypes() []DataType {
	return []DataType{
		DataTypeRawDocuments,
		DataTypeNormalizedDocuments,
		DataTypeEnrichedDocuments,
		DataTypeChunks,
		DataTypeEmbeddings,
		DataTypeVectors,
		DataTypeSearchResults,
		DataTypeRerankedResults,
		DataTypeQuery,
		DataTypeQueryEmbeddings,
		DataTypeNone,
	}
}

// Category groups operators by their role in a pipeline.
type Category string

const (
	CategoryLoader      Category = "loader"
	CategoryProcessor   Category = "processor"
	CategoryChunker     Category = "chunker"
	CategoryEmbedder    Category = "embedder"
	CategoryVectorStore Category = "vector_store"
	CategoryQuery       Category = "query"
	CategoryRetriever   Category = "retriever"
	CategoryReranker    Category = "reranker"
	CategoryOutput      Category = "output"
)

// KnownCategory reports whether c is one of the closed category set.
func KnownCategory(c Category) bool {
	switch c {
	case CategoryLoader, CategoryProcessor, CategoryChunker, CategoryEmbedder,
		CategoryVectorStore, CategoryQuery, CategoryRetriever, CategoryReranker,
		CategoryOutput:
		return true
	default:
		return false
	}
}
