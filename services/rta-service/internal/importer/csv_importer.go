package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// ImportCSV parses a delimited production table. The first record is the
// header; column roles are detected by alias matching.
func (im *Importer) ImportCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &models.DataShapeError{Reason: "empty or unreadable CSV"}
	}

	cols, err := detectColumns(header)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, record)
	}

	return im.assemble(rows, cols)
}
