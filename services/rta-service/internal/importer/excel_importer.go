package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// ImportExcel parses the first sheet of an xlsx workbook as a production
// table with a header row.
func (im *Importer) ImportExcel(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &models.DataShapeError{Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &models.DataShapeError{Reason: "sheet is empty"}
	}

	cols, err := detectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	return im.assemble(rows[1:], cols)
}
