package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/importer"
	"github.com/sells-group/contract-costs/internal/model"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import budgets, NFe invoices and notas fiscais from files",
}

var (
	importFile     string
	importContract int64
	importOrder    int64
	importFolder   string
)

var importBudgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Import a budget spreadsheet, optionally as the forecast of a contract",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		file, err := readImportFile(importFile)
		if err != nil {
			return err
		}
		env, err := initApp(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Services.Importer.ImportBudget(ctx, file, optionalID(importContract))
		if err != nil {
			return eris.Wrap(err, "import budget")
		}

		for _, e := range res.Errors {
			zap.L().Warn("budget row skipped", zap.String("reason", e))
		}
		zap.L().Info("budget import complete",
			zap.String("file", file.Name),
			zap.Int("lines", len(res.Items)),
			zap.Int("imported", res.ImportedItems),
			zap.String("items_total", res.ItemsTotal.StringFixed(2)),
		)
		return nil
	},
}

var importNFeCmd = &cobra.Command{
	Use:   "nfe",
	Short: "Import an NFe XML as an invoice of a contract or purchase order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		link := model.InvoiceLinkFromRefs(optionalID(importContract), optionalID(importOrder))
		if link.Kind() == model.LinkNone {
			return eris.New("one of --contract or --order is required")
		}
		file, err := readImportFile(importFile)
		if err != nil {
			return err
		}
		env, err := initApp(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Services.Importer.ImportInvoiceXML(ctx, link, file)
		if err != nil {
			return eris.Wrap(err, "import nfe")
		}

		for _, w := range res.Warnings {
			zap.L().Warn("nfe import warning", zap.String("warning", w))
		}
		zap.L().Info("nfe import complete",
			zap.Int64("invoice_id", res.Invoice.ID),
			zap.String("invoice_number", res.Invoice.InvoiceNumber),
			zap.Int("items", len(res.Invoice.Items)),
		)
		return nil
	},
}

var importNFCmd = &cobra.Command{
	Use:   "nf",
	Short: "Import an NFe XML as a nota fiscal awaiting validation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		file, err := readImportFile(importFile)
		if err != nil {
			return err
		}
		env, err := initApp(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		nf, err := env.Services.Importer.ImportNotaFiscalXML(ctx, file, importFolder, optionalID(importContract))
		if err != nil {
			return eris.Wrap(err, "import nota fiscal")
		}
		zap.L().Info("nota fiscal imported",
			zap.Int64("id", nf.ID),
			zap.String("number", nf.Number),
			zap.Int("items", len(nf.Items)),
		)
		return nil
	},
}

var importZipCmd = &cobra.Command{
	Use:   "zip",
	Short: "Import every NFe XML in a ZIP archive as invoices of a contract",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		file, err := readImportFile(importFile)
		if err != nil {
			return err
		}
		env, err := initApp(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Services.Importer.ImportZip(ctx, importContract, file, nil)
		if err != nil {
			return eris.Wrap(err, "import zip")
		}
		for _, e := range res.Errors {
			zap.L().Warn("zip entry failed", zap.String("error", e))
		}
		zap.L().Info("zip import complete",
			zap.Int("processed", res.ProcessedCount),
			zap.Int("failed", res.FailedCount),
			zap.Int("attachments", len(res.Attachments)),
		)
		return nil
	},
}

// readImportFile loads a file into the importer's in-memory form.
func readImportFile(path string) (importer.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return importer.File{}, eris.Wrapf(err, "read %s", path)
	}
	return importer.File{Name: filepath.Base(path), Data: data}, nil
}

// optionalID maps an unset (zero) id flag to nil.
func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

func init() {
	for _, c := range []*cobra.Command{importBudgetCmd, importNFeCmd, importNFCmd, importZipCmd} {
		c.Flags().StringVar(&importFile, "file", "", "path to the file to import (required)")
		_ = c.MarkFlagRequired("file")
		importCmd.AddCommand(c)
	}

	importBudgetCmd.Flags().Int64Var(&importContract, "contract", 0, "contract receiving the forecast lines")
	importNFeCmd.Flags().Int64Var(&importContract, "contract", 0, "contract the invoice belongs to")
	importNFeCmd.Flags().Int64Var(&importOrder, "order", 0, "purchase order the invoice belongs to")
	importNFCmd.Flags().Int64Var(&importContract, "contract", 0, "contract the nota fiscal belongs to")
	importNFCmd.Flags().StringVar(&importFolder, "folder", "", "source folder name")
	importZipCmd.Flags().Int64Var(&importContract, "contract", 0, "contract receiving the invoices (required)")
	_ = importZipCmd.MarkFlagRequired("contract")

	rootCmd.AddCommand(importCmd)
}
