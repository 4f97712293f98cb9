package workspace

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"zonetrack/internal/apperr"
)

const itemsSheet = "Items"

var itemsHeader = []any{"Name", "SKU", "Use case", "Description"}

// ExportItems writes the client's items as an xlsx workbook, one row per
// item in stored order after a header row.
func (s *Service) ExportItems(ctx context.Context, clientID string, w io.Writer) error {
	items, err := s.Items(ctx, clientID)
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), itemsSheet); err != nil {
		return apperr.Store("export items", err)
	}
	if err := f.SetSheetRow(itemsSheet, "A1", &itemsHeader); err != nil {
		return apperr.Store("export items", err)
	}
	for i, it := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperr.Store("export items", err)
		}
		row := []any{it.Name, it.SKU, it.UseCase, it.Description}
		if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return apperr.Store("export items", err)
		}
	}
	if err := f.Write(w); err != nil {
		return apperr.Store("export items", err)
	}
	s.record(ctx, "ITEM_EXPORT", clientID, "", map[string]any{"count": len(items)})
	return nil
}
