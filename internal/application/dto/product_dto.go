package dto

import "time"

// CreateProductRequest entrada do cadastro manual.
type CreateProductRequest struct {
	Code        string `json:"codigo" validate:"required,max=60"`
	Description string `json:"descricao" validate:"required,max=300"`
	Unit        string `json:"unidade" validate:"max=20"`
	Category    string `json:"categoria" validate:"max=80"`
}

// ProductResponse saída de um produto.
type ProductResponse struct {
	Code        string    `json:"codigo"`
	Description string    `json:"descricao"`
	Unit        string    `json:"unidade,omitempty"`
	Category    string    `json:"categoria,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductListResponse catálogo completo.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// ImportMapping indica qual coluna da planilha corresponde a cada campo.
// Vazio = usa o cabeçalho homônimo (codigo, descricao, unidade, categoria).
type ImportMapping struct {
	CodeColumn        string `json:"col_codigo" form:"col_codigo"`
	DescriptionColumn string `json:"col_descricao" form:"col_descricao"`
	UnitColumn        string `json:"col_unidade" form:"col_unidade"`
	CategoryColumn    string `json:"col_categoria" form:"col_categoria"`
}

// ImportPreviewResponse cabeçalhos e primeiras linhas para o usuário escolher o mapeamento.
type ImportPreviewResponse struct {
	Headers []string   `json:"headers"`
	Sample  [][]string `json:"sample"`
	Rows    int        `json:"rows"`
}

// ImportRowError erro de uma linha da planilha (Line é 1-based, contando o cabeçalho).
type ImportRowError struct {
	Line    int    `json:"linha"`
	Message string `json:"mensagem"`
}

// ImportResult resultado da importação em massa.
type ImportResult struct {
	Imported int              `json:"importados"`
	Skipped  int              `json:"ignorados"`
	Errors   []ImportRowError `json:"erros"`
}
