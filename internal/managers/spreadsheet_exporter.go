package managers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/exopredict/exopredict/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	XLSXExtension   = ".xlsx"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	spreadsheetSheetName = "Predictions"
)

type spreadsheetExporter struct{}

func NewSpreadsheetExporter() domain.SpreadsheetExporter {
	return &spreadsheetExporter{}
}

// Export writes every CSV record as a worksheet row. Numeric fields become
// number cells; everything else is kept as text.
func (e *spreadsheetExporter) Export(csvContent []byte) ([]byte, error) {
	reader := csv.NewReader(bytes.NewReader(csvContent))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, spreadsheetSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve row %d: %w", i+1, err)
		}

		row := make([]interface{}, len(record))
		for j, field := range record {
			row[j] = spreadsheetValue(field, i == 0)
		}

		if err := f.SetSheetRow(spreadsheetSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func spreadsheetValue(field string, header bool) interface{} {
	if header {
		return field
	}

	trimmed := strings.TrimSpace(field)
	if number, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(number) && !math.IsInf(number, 0) {
		return number
	}

	return field
}

// XLSXName swaps a .csv suffix for .xlsx
func XLSXName(fileName string) string {
	return strings.TrimSuffix(fileName, domain.CSVExtension) + XLSXExtension
}
