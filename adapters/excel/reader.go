package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"enrolldash/internal/errors"

	"github.com/xuri/excelize/v2"
)

const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader reads CSV and Excel uploads into a RawTable
type DataReader struct {
	filename string
	fileType string
}

// NewDataReader picks the format from the file extension. Files without an extension are read as CSV.
func NewDataReader(filename string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filename))
	fileType := ""
	switch ext {
	case ".csv", "":
		fileType = FileTypeCSV
	case ".xlsx":
		fileType = FileTypeXLSX
	}
	return &DataReader{filename: filename, fileType: fileType}
}

// Supported reports whether the file extension can be read
func (r *DataReader) Supported() bool {
	return r.fileType != ""
}

// FileType returns "csv", "xlsx" or "" for unsupported files
func (r *DataReader) FileType() string {
	return r.fileType
}

// Read parses the whole upload. Empty input fails with EMPTY_FILE.
func (r *DataReader) Read(src io.Reader) (*RawTable, error) {
	switch r.fileType {
	case FileTypeCSV:
		return r.readCSV(src)
	case FileTypeXLSX:
		return r.readXLSX(src)
	default:
		return nil, errors.UnsupportedFile(r.filename)
	}
}

// ReadFile opens path and reads it with the reader's format
func (r *DataReader) ReadFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return r.Read(f)
}

func (r *DataReader) readCSV(src io.Reader) (*RawTable, error) {
	readStart := time.Now()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.EmptyFile()
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeParseError, Message: "failed to parse CSV", Cause: err}
	}
	log.Printf("[DataReader] CSV %s read in %.2fms (%d rows)", r.filename, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return processRows(rows)
}

func (r *DataReader) readXLSX(src io.Reader) (*RawTable, error) {
	readStart := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeParseError, Message: "failed to open Excel workbook", Cause: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.EmptyFile()
	}
	// Raw values keep number formats such as "#,##0" from turning 1000 into "1,000".
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeParseError, Message: fmt.Sprintf("failed to read sheet %s", sheets[0]), Cause: err}
	}
	log.Printf("[DataReader] Excel %s sheet %s read in %.2fms (%d rows)", r.filename, sheets[0], float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return processRows(rows)
}

// processRows normalizes headers and pads or truncates every row to the header width
func processRows(rows [][]string) (*RawTable, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, errors.EmptyFile()
	}

	headers := normalizeHeaders(rows[0])
	table := &RawTable{Headers: headers, Rows: make([][]string, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := range cells {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	log.Printf("[DataReader] Table processed (%d columns, %d rows)", len(table.Headers), len(table.Rows))
	return table, nil
}

func dropBlankRows(rows [][]string) [][]string {
	kept := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}

// normalizeHeaders trims names, fills blanks with "Unnamed: i" and suffixes duplicates with ".n"
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		headers[i] = name
	}
	return headers
}
