package importer

import "github.com/xuri/excelize/v2"

const TemplateSheet = "导入模板"

// TemplateFileName is the suggested download name.
const TemplateFileName = "Inventory_Import_Template.xlsx"

var sampleRow = []any{"S001", "P1001", 50, 10, "2026-01-15", "C001", "是", "2026-01-15", "2026-02-14"}

// Template builds the standard import workbook: the canonical header row
// plus one example row, round-trippable through Parse.
func Template() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return nil, err
	}

	for i, h := range Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(TemplateSheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, v := range sampleRow {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(TemplateSheet, cell, v); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(TemplateSheet, "A", "I", 12); err != nil {
		return nil, err
	}
	return f, nil
}
