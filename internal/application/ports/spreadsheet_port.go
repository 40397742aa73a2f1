package ports

import "io"

// Sheet é o conteúdo tabular de uma planilha importada: cabeçalho + linhas.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// SpreadsheetReader lê .xlsx ou .csv; o formato é decidido pelo nome do arquivo.
type SpreadsheetReader interface {
	Read(filename string, r io.Reader) (*Sheet, error)
}
