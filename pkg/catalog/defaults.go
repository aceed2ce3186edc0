// Package catalog provides the built-in operator set for registration.
package catalog

import "github.com/pipestudio/pipestudio/pkg/models"

// RegisterDefaultOperators registers all built-in pipeline operators with
// the catalog.
func (c *Catalog) RegisterDefaultOperators() {
	builtins := []struct {
		entry models.CatalogEntry
		spec  *models.OperatorSpec
	}{
		{
			entry: models.CatalogEntry{
				OperatorID:  "csv_loader",
				Category:    models.CategoryLoader,
				DisplayName: "CSV Loader",
				InputType:   models.DataTypeNone,
				OutputType:  models.DataTypeRawDocuments,
			},
			spec: &models.OperatorSpec{
				OperatorID: "csv_loader",
				Category:   models.CategoryLoader,
				Version:    "1.0.0",
				InputType:  models.DataTypeNone,
				OutputType: models.DataTypeRawDocuments,
				RequiredConfig: []models.ConfigFieldSpec{
					{Name: "path", FieldType: models.FieldTypeString, Required: true},
				},
				OptionalConfig: []models.ConfigFieldSpec{
					{Name: "delimiter", FieldType: models.FieldTypeString, Default: ","},
					{Name: "has_header", FieldType: models.FieldTypeBoolean, Default: true},
				},
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "pdf_loader",
				Category:    models.CategoryLoader,
				DisplayName: "PDF Loader",
				InputType:   models.DataTypeNone,
				OutputType:  models.DataTypeRawDocuments,
			},
			spec: &models.OperatorSpec{
				OperatorID: "pdf_loader",
				Category:   models.CategoryLoader,
				Version:    "1.0.0",
				InputType:  models.DataTypeNone,
				OutputType: models.DataTypeRawDocuments,
				RequiredConfig: []models.ConfigFieldSpec{
					{Name: "path", FieldType: models.FieldTypeString, Required: true},
				},
				OptionalConfig: []models.ConfigFieldSpec{
					{Name: "extract_images", FieldType: models.FieldTypeBoolean, Default: false},
				},
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "text_normalizer",
				Category:    models.CategoryProcessor,
				DisplayName: "Text Normalizer",
				InputType:   models.DataTypeRawDocuments,
				OutputType:  models.DataTypeNormalizedDocuments,
			},
			spec: &models.OperatorSpec{
				OperatorID: "text_normalizer",
				Category:   models.CategoryProcessor,
				Version:    "1.0.0",
				InputType:  models.DataTypeRawDocuments,
				OutputType: models.DataTypeNormalizedDocuments,
				OptionalConfig: []models.ConfigFieldSpec{
					{Name: "lowercase", FieldType: models.FieldTypeBoolean, Default: false},
					{Name: "strip_html", FieldType: models.FieldTypeBoolean, Default: true},
				},
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "metadata_enricher",
				Category:    models.CategoryProcessor,
				DisplayName: "Metadata Enricher",
				InputType:   models.DataTypeNormalizedDocuments,
				OutputType:  models.DataTypeEnrichedDocuments,
			},
			spec: &models.OperatorSpec{
				OperatorID: "metadata_enricher",
				Category:   models.CategoryProcessor,
				Version:    "1.0.0",
				InputType:  models.DataTypeNormalizedDocuments,
				OutputType: models.DataTypeEnrichedDocuments,
				RequiredConfig: []models.ConfigFieldSpec{
					{
						Name: "strategy", FieldType: models.FieldTypeSelect, Required: true,
						Options: []string{"keywords", "entities", "summary"},
					},
				},
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "text_chunker",
				Category:    models.CategoryChunker,
				DisplayName: "Text Chunker",
				InputType:   models.DataTypeRawDocuments,
				OutputType:  models.DataTypeChunks,
			},
			spec: &models.OperatorSpec{
				OperatorID: "text_chunker",
				Category:   models.CategoryChunker,
				Version:    "1.0.0",
				InputType:  models.DataTypeRawDocuments,
				OutputType: models.DataTypeChunks,
				RequiredConfig: []models.ConfigFieldSpec{
					{Name: "chunk_size", FieldType: models.FieldTypeInteger, Required: true, Default: 512},
				},
				OptionalConfig: []models.ConfigFieldSpec{
					{Name: "overlap", FieldType: models.FieldTypeInteger, Default: 64},
					{
						Name: "splitter", FieldType: models.FieldTypeSelect, Default: "sentence",
						Options: []string{"sentence", "token", "recursive"},
					},
				},
			},
		},
		{
			entry: func() models.CatalogEntry {
				dim := 1536

				return models.CatalogEntry{
					OperatorID:  "openai_embedder",
					Category:    models.CategoryEmbedder,
					DisplayName: "OpenAI Embedder",
					InputType:   models.DataTypeChunks,
					OutputType:  models.DataTypeEmbeddings,
					Dimension:   &dim,
				}
			}(),
			spec: &models.OperatorSpec{
				OperatorID: "openai_embedder",
				Category:   models.CategoryEmbedder,
				Version:    "1.0.0",
				InputType:  models.DataTypeChunks,
				OutputType: models.DataTypeEmbeddings,
				RequiredConfig: []models.ConfigFieldSpec{
					{Name: "api_key", FieldType: models.FieldTypeSecret, Required: true},
					{
						Name: "model", FieldType: models.FieldTypeModelSelect, Required: true,
						Options: []string{"text-embedding-3-small", "text-embedding-3-large"},
					},
				},
				OptionalConfig: []models.ConfigFieldSpec{
					{Name: "batch_size", FieldType: models.FieldTypeInteger, Default: 64},
				},
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "pgvector_writer",
				Category:    models.CategoryVectorStore,
				DisplayName: "PGVector Writer",
				InputType:   models.DataTypeEmbeddings,
				OutputType:  models.DataTypeVectors,
			},
			spec: &models.OperatorSpec{
				OperatorID: "pgvector_writer",
				Category:   models.CategoryVectorStore,
				Version:    "1.0.0",
				InputType:  models.DataTypeEmbeddings,
				OutputType: models.DataTypeVectors,
				RequiredConfig: []models.ConfigFieldSpec{
					{Name: "connection_url", FieldType: models.FieldTypeSecret, Required: true},
					{Name: "table", FieldType: models.FieldTypeString, Required: true},
				},
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "query_input",
				Category:    models.CategoryQuery,
				DisplayName: "Query Input",
				InputType:   models.DataTypeNone,
				OutputType:  models.DataTypeQuery,
			},
			spec: &models.OperatorSpec{
				OperatorID: "query_input",
				Category:   models.CategoryQuery,
				Version:    "1.0.0",
				InputType:  models.DataTypeNone,
				OutputType: models.DataTypeQuery,
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "query_embedder",
				Category:    models.CategoryEmbedder,
				DisplayName: "Query Embedder",
				InputType:   models.DataTypeQuery,
				OutputType:  models.DataTypeQueryEmbeddings,
			},
			spec: &models.OperatorSpec{
				OperatorID: "query_embedder",
				Category:   models.CategoryEmbedder,
				Version:    "1.0.0",
				InputType:  models.DataTypeQuery,
				OutputType: models.DataTypeQueryEmbeddings,
				RequiredConfig: []models.ConfigFieldSpec{
					{Name: "api_key", FieldType: models.FieldTypeSecret, Required: true},
					{
						Name: "model", FieldType: models.FieldTypeModelSelect, Required: true,
						Options: []string{"text-embedding-3-small", "text-embedding-3-large"},
					},
				},
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "vector_search",
				Category:    models.CategoryRetriever,
				DisplayName: "Vector Search",
				InputType:   models.DataTypeQueryEmbeddings,
				OutputType:  models.DataTypeSearchResults,
			},
			spec: &models.OperatorSpec{
				OperatorID: "vector_search",
				Category:   models.CategoryRetriever,
				Version:    "1.0.0",
				InputType:  models.DataTypeQueryEmbeddings,
				OutputType: models.DataTypeSearchResults,
				RequiredConfig: []models.ConfigFieldSpec{
					{Name: "index", FieldType: models.FieldTypeString, Required: true},
				},
				OptionalConfig: []models.ConfigFieldSpec{
					{Name: "top_k", FieldType: models.FieldTypeInteger, Default: 10},
				},
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "cohere_reranker",
				Category:    models.CategoryReranker,
				DisplayName: "Cohere Reranker",
				InputType:   models.DataTypeSearchResults,
				OutputType:  models.DataTypeRerankedResults,
			},
			spec: &models.OperatorSpec{
				OperatorID: "cohere_reranker",
				Category:   models.CategoryReranker,
				Version:    "1.0.0",
				InputType:  models.DataTypeSearchResults,
				OutputType: models.DataTypeRerankedResults,
				RequiredConfig: []models.ConfigFieldSpec{
					{Name: "api_key", FieldType: models.FieldTypeSecret, Required: true},
				},
				OptionalConfig: []models.ConfigFieldSpec{
					{Name: "top_n", FieldType: models.FieldTypeInteger, Default: 5},
				},
			},
		},
		{
			entry: models.CatalogEntry{
				OperatorID:  "results_output",
				Category:    models.CategoryOutput,
				DisplayName: "Results Output",
				InputType:   models.DataTypeRerankedResults,
				OutputType:  models.DataTypeNone,
			},
			spec: &models.OperatorSpec{
				OperatorID: "results_output",
				Category:   models.CategoryOutput,
				Version:    "1.0.0",
				InputType:  models.DataTypeRerankedResults,
				OutputType: models.DataTypeNone,
			},
		},
	}

	for _, builtin := range builtins {
		if err := c.Register(builtin.entry, builtin.spec); err != nil {
			c.logger.Error("Failed to register built-in operator",
				"operator", builtin.entry.OperatorID, "error", err)
		}
	}
}
