// Package spreadsheet lê as planilhas de importação do catálogo (.xlsx e .csv).
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	excelize "github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/internal/domain"
)

var _ ports.SpreadsheetReader = (*Reader)(nil)

// DefaultMaxFileSize limite padrão do arquivo importado.
const DefaultMaxFileSize = 20 << 20

// Reader implementa ports.SpreadsheetReader.
type Reader struct {
	maxSize int64
}

// NewReader constrói o leitor com DefaultMaxFileSize.
func NewReader() *Reader { return &Reader{maxSize: DefaultMaxFileSize} }

// Read escolhe o formato pela extensão do arquivo. A primeira linha não vazia é o cabeçalho.
func (r *Reader) Read(filename string, src io.Reader) (*ports.Sheet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".xlsx" && ext != ".csv" {
		return nil, fmt.Errorf("%w: formato não suportado %q (use .xlsx ou .csv)", domain.ErrInvalidInput, filepath.Ext(filename))
	}
	raw, err := r.readAll(src)
	if err != nil {
		return nil, err
	}
	if ext == ".xlsx" {
		return readXLSX(raw)
	}
	return readCSV(raw)
}

// readAll lê o arquivo inteiro e recusa o que passar do limite em vez de truncar.
func (r *Reader) readAll(src io.Reader) ([]byte, error) {
	limit := r.maxSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	raw, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, fmt.Errorf("ler arquivo: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: arquivo maior que %d bytes", domain.ErrInvalidInput, limit)
	}
	return raw, nil
}

func readXLSX(raw []byte) (*ports.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: arquivo excel inválido: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: planilha sem abas", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: não foi possível ler a aba %s: %v", domain.ErrInvalidInput, sheets[0], err)
	}
	return toSheet(rows)
}

func readCSV(raw []byte) (*ports.Sheet, error) {
	var err error
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(raw) {
		// Exportações do Excel em português saem em Windows-1252.
		if raw, err = charmap.Windows1252.NewDecoder().Bytes(raw); err != nil {
			return nil, fmt.Errorf("%w: codificação do csv: %v", domain.ErrInvalidInput, err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = detectDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv inválido: %v", domain.ErrInvalidInput, err)
	}
	return toSheet(rows)
}

// detectDelimiter escolhe entre ';' e ',' pelo que mais aparece na primeira linha.
func detectDelimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		return ';'
	}
	return ','
}

func toSheet(rows [][]string) (*ports.Sheet, error) {
	var sheet ports.Sheet
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if sheet.Headers == nil {
			sheet.Headers = make([]string, len(row))
			for i, h := range row {
				sheet.Headers[i] = strings.TrimSpace(h)
			}
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	if sheet.Headers == nil {
		return nil, fmt.Errorf("%w: planilha vazia", domain.ErrInvalidInput)
	}
	return &sheet, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
