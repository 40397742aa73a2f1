package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	"github.com/amancio-obras/estoque-obras/internal/application/report"
	"github.com/amancio-obras/estoque-obras/internal/bootstrap"
	"github.com/amancio-obras/estoque-obras/internal/infrastructure/postgres"
	"github.com/amancio-obras/estoque-obras/pkg/config"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// boot carrega a configuração e monta as dependências.
func boot(ctx context.Context) (*bootstrap.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	return bootstrap.New(ctx, cfg, log)
}

// estoquectl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica as migrações do schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		version, err := postgres.Migrate(cfg.DB.ConnectionString())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema na versão %d\n", version)
		return nil
	},
}

var importMapping dto.ImportMapping

// estoquectl import <arquivo>
var importCmd = &cobra.Command{
	Use:   "import <arquivo>",
	Short: "Importa produtos de uma planilha .xlsx ou .csv",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := boot(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := deps.Products.Import(ctx, f.Name(), f, importMapping)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "importados: %d  ignorados: %d  erros: %d\n", res.Imported, res.Skipped, len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  linha %d: %s\n", e.Line, e.Message)
		}
		return nil
	},
}

var saldoCSV bool

// estoquectl saldo
var saldoCmd = &cobra.Command{
	Use:   "saldo",
	Short: "Mostra a tabela de saldo",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := boot(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		balances, err := deps.Ledger.Balances(ctx)
		if err != nil {
			return err
		}
		if saldoCSV {
			return report.WriteBalancesCSV(cmd.OutOrStdout(), balances.Items)
		}
		return printBalances(cmd, balances.Items)
	},
}

func printBalances(cmd *cobra.Command, items []dto.BalanceResponse) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CÓDIGO\tDESCRIÇÃO\tSALDO\tCUSTO MÉDIO\tVALOR\t")
	for _, b := range items {
		flag := ""
		if b.Low {
			flag = " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%s\t%s\t%s\t\n",
			b.Code, b.Description, b.Quantity.String(), flag, b.AverageCost.StringFixed(4), b.TotalValue.StringFixed(2))
	}
	return tw.Flush()
}

// estoquectl snapshot
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Envia histórico e saldo (CSV e PDF) para o bucket S3 configurado",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := boot(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		uris, err := deps.Report.Snapshot(ctx)
		if err != nil {
			return err
		}
		for _, u := range uris {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importMapping.CodeColumn, "col-codigo", "", "coluna do código")
	importCmd.Flags().StringVar(&importMapping.DescriptionColumn, "col-descricao", "", "coluna da descrição")
	importCmd.Flags().StringVar(&importMapping.UnitColumn, "col-unidade", "", "coluna da unidade")
	importCmd.Flags().StringVar(&importMapping.CategoryColumn, "col-categoria", "", "coluna da categoria")

	saldoCmd.Flags().BoolVar(&saldoCSV, "csv", false, "saída em CSV")
}
