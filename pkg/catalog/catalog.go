// Package catalog holds the operator palette and builds graph nodes from
// catalog entries.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/pipestudio/pipestudio/pkg/models"
)

var (
	// ErrUnknownOperator is returned when an operator id is not registered,
	// e.g. because the catalog fetch has not resolved yet.
	ErrUnknownOperator = errors.New("operator not registered")
	// ErrOperatorMismatch is returned when an entry and a spec disagree on
	// the operator id.
	ErrOperatorMismatch = errors.New("catalog entry and operator spec ids differ")
	// ErrUnknownCategory is returned for entries outside the closed
	// category set.
	ErrUnknownCategory = errors.New("unrecognized operator category")
)

// Catalog is the registry of available operators: palette entries plus the
// full configuration contract per operator id.
type Catalog struct {
	logger  *slog.Logger
	entries map[string]models.CatalogEntry
	specs   map[string]*models.OperatorSpec
}

// NewCatalog creates an empty catalog.
func NewCatalog(logger *slog.Logger) *Catalog {
	return &Catalog{
		logger:  logger,
		entries: make(map[string]models.CatalogEntry),
		specs:   make(map[string]*models.OperatorSpec),
	}
}

// Register adds an operator to the catalog. The entry and spec must agree
// on the operator id and carry a known category.
func (c *Catalog) Register(entry models.CatalogEntry, spec *models.OperatorSpec) error {
	if entry.OperatorID != spec.OperatorID {
		return fmt.Errorf("%w: entry %q, spec %q", ErrOperatorMismatch, entry.OperatorID, spec.OperatorID)
	}

	if !models.KnownCategory(entry.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, entry.Category)
	}

	c.entries[entry.OperatorID] = entry
	c.specs[entry.OperatorID] = spec

	c.logger.Debug("Registered operator",
		"operator", entry.OperatorID, "category", string(entry.Category))

	return nil
}

// Entry returns the palette entry for an operator id.
func (c *Catalog) Entry(operatorID string) (models.CatalogEntry, error) {
	entry, ok := c.entries[operatorID]
	if !ok {
		return models.CatalogEntry{}, fmt.Errorf("%w: %q", ErrUnknownOperator, operatorID)
	}

	return entry, nil
}

// Spec returns the full operator spec for an operator id.
func (c *Catalog) Spec(operatorID string) (*models.OperatorSpec, error) {
	spec, ok := c.specs[operatorID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, operatorID)
	}

	return spec, nil
}

// EntriesByCategory groups the palette for display, entries sorted by
// operator id within each category.
func (c *Catalog) EntriesByCategory() map[models.Category][]models.CatalogEntry {
	grouped := make(map[models.Category][]models.CatalogEntry)

	for _, entry := range c.entries {
		grouped[entry.Category] = append(grouped[entry.Category], entry)
	}

	for _, entries := range grouped {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].OperatorID < entries[j].OperatorID
		})
	}

	return grouped
}

// NewNode builds a fresh graph node from a catalog entry and its spec at
// the given canvas position. The node starts with an empty config, both
// flags false and no execution status; input and output types are copied
// from the entry and keep their values even if the catalog changes later.
func NewNode(entry models.CatalogEntry, spec *models.OperatorSpec, position models.Position) (*models.Node, error) {
	if spec == nil || entry.OperatorID != spec.OperatorID {
		return nil, fmt.Errorf("%w: entry %q", ErrOperatorMismatch, entry.OperatorID)
	}

	if !models.KnownCategory(entry.Category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, entry.Category)
	}

	return &models.Node{
		ID:           uuid.New().String(),
		Operator:     entry.OperatorID,
		Category:     entry.Category,
		DisplayName:  entry.DisplayName,
		Position:     position,
		Config:       make(map[string]any),
		InputType:    entry.InputType,
		OutputType:   entry.OutputType,
		IsConfigured: false,
		HasErrors:    false,
	}, nil
}

// CreateNode looks up an operator by id and builds a node from it. It is
// the drop-instantiation path: the renderer supplies a plain operator id
// and an already translated canvas position.
func (c *Catalog) CreateNode(operatorID string, position models.Position) (*models.Node, error) {
	entry, err := c.Entry(operatorID)
	if err != nil {
		return nil, err
	}

	spec, err := c.Spec(operatorID)
	if err != nil {
		return nil, err
	}

	return NewNode(entry, spec, position)
}
