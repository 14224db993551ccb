package export

import (
	"fmt"
	"io"

	"github.com/Dan9191/clt-simulator/internal/models"
	"github.com/beevik/etree"
)

const (
	nsSpreadsheet = "urn:schemas-microsoft-com:office:spreadsheet"
	worksheetName = "Simulacao"
)

// BuildSpreadsheetML builds an Excel 2003 XML workbook with the full export
func BuildSpreadsheetML(sims []*models.Simulation) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateProcInst("mso-application", `progid="Excel.Sheet"`)

	workbook := doc.CreateElement("Workbook")
	workbook.CreateAttr("xmlns", nsSpreadsheet)
	workbook.CreateAttr("xmlns:ss", nsSpreadsheet)

	sheet := workbook.CreateElement("Worksheet")
	sheet.CreateAttr("ss:Name", worksheetName)
	table := sheet.CreateElement("Table")

	appendRow(table, SheetHeader)
	for _, row := range sheetRows(sims) {
		appendRow(table, row)
	}

	doc.Indent(2)
	return doc
}

// WriteSpreadsheetML writes the workbook built by BuildSpreadsheetML
func WriteSpreadsheetML(w io.Writer, sims []*models.Simulation) error {
	if _, err := BuildSpreadsheetML(sims).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func appendRow(table *etree.Element, values []string) {
	row := table.CreateElement("Row")
	for _, v := range values {
		data := row.CreateElement("Cell").CreateElement("Data")
		data.CreateAttr("ss:Type", "String")
		data.SetText(v)
	}
}
