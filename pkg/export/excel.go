package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// ToExcel renders one sheet with a bold header row and returns the workbook
// bytes plus a filename ending in .xlsx.
func ToExcel(columns []string, rows [][]any, filename string) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			switch v := val.(type) {
			case time.Time:
				if v.IsZero() {
					continue
				}
				f.SetCellValue(sheetName, cell, v.Format("2006-01-02 15:04:05"))
			case decimal.Decimal:
				f.SetCellValue(sheetName, cell, v.InexactFloat64())
			case decimal.NullDecimal:
				if v.Valid {
					f.SetCellValue(sheetName, cell, v.Decimal.InexactFloat64())
				}
			case fmt.Stringer:
				f.SetCellValue(sheetName, cell, v.String())
			default:
				f.SetCellValue(sheetName, cell, v)
			}
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 15)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	if !strings.HasSuffix(filename, ".xlsx") {
		filename += ".xlsx"
	}
	return buffer.Bytes(), filename, nil
}
