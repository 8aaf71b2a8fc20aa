package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/attach"
	"github.com/sells-group/contract-costs/internal/ingest"
	"github.com/sells-group/contract-costs/internal/model"
)

// BulkInvoice summarizes one invoice created by a bulk import.
type BulkInvoice struct {
	ID         int64           `json:"id"`
	Number     string          `json:"invoice_number"`
	TotalValue decimal.Decimal `json:"total_value"`
	File       string          `json:"file"`
}

// BulkResult reports a ZIP import.
type BulkResult struct {
	ProcessedCount int                `json:"processed_count"`
	FailedCount    int                `json:"failed_count"`
	Invoices       []BulkInvoice      `json:"invoices"`
	Attachments    []model.Attachment `json:"attachments"`
	Errors         []string           `json:"errors"`
}

// ImportZip imports every XML in the archive as an invoice of the contract
// and stores every PDF as a nota_fiscal attachment of the contract. Other
// entries are ignored. Files are processed one at a time in archive order;
// a failing file is reported and does not stop the rest.
func (s *Service) ImportZip(ctx context.Context, contractID int64, zipFile File, uploadedBy *int64) (*BulkResult, error) {
	if zipFile.Ext() != ".zip" {
		return nil, apperr.Validation("file must be a ZIP archive")
	}
	if _, err := s.store.GetContract(ctx, contractID); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(s.tempDir, "invoices-*")
	if err != nil {
		return nil, eris.Wrap(err, "importer: create temp dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	zipPath := filepath.Join(dir, "upload.zip")
	if err := os.WriteFile(zipPath, zipFile.Data, 0o600); err != nil {
		return nil, eris.Wrap(err, "importer: write archive")
	}
	paths, err := ingest.ExtractZIP(zipPath, filepath.Join(dir, "files"), ingest.ZIPOptions{
		Extensions:    []string{".xml", ".pdf"},
		MaxEntryBytes: maxZipEntryBytes,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid ZIP archive")
	}

	res := &BulkResult{Invoices: []BulkInvoice{}, Attachments: []model.Attachment{}, Errors: []string{}}
	for _, p := range paths {
		if ctx.Err() != nil {
			return res, eris.Wrap(ctx.Err(), "importer: zip import cancelled")
		}
		name := filepath.Base(p)
		ext := strings.ToLower(filepath.Ext(name))

		data, err := os.ReadFile(p)
		if err != nil {
			res.fail(name, err)
			continue
		}

		switch ext {
		case ".xml":
			imp, err := s.ImportInvoiceXML(ctx, model.LinkToContract(contractID), File{Name: name, Data: data})
			if err != nil {
				res.fail(name, err)
				continue
			}
			res.Invoices = append(res.Invoices, BulkInvoice{
				ID:         imp.Invoice.ID,
				Number:     imp.Invoice.InvoiceNumber,
				TotalValue: imp.Invoice.TotalValue,
				File:       name,
			})
		case ".pdf":
			a, err := s.files.Save(ctx, attach.Upload{
				Name:       name,
				Data:       data,
				Type:       model.AttachNotaFiscal,
				Entity:     model.Ref(model.EntityContract, contractID),
				UploadedBy: uploadedBy,
			})
			if err != nil {
				res.fail(name, err)
				continue
			}
			res.Attachments = append(res.Attachments, *a)
		}
		res.ProcessedCount++
	}

	s.log.Info("zip import finished",
		zap.Int64("contract_id", contractID),
		zap.Int("processed", res.ProcessedCount),
		zap.Int("failed", res.FailedCount),
	)
	return res, nil
}

func (r *BulkResult) fail(name string, err error) {
	r.FailedCount++
	msg := apperr.Message(err)
	if msg == "" {
		msg = err.Error()
	}
	r.Errors = append(r.Errors, fmt.Sprintf("error processing %s: %s", name, msg))
}

// maxZipEntryBytes caps a single inflated archive entry.
const maxZipEntryBytes = 20 << 20

// FileResult is the outcome of one file in ImportFiles.
type FileResult struct {
	Filename  string  `json:"filename"`
	Success   bool    `json:"success"`
	InvoiceID *int64  `json:"invoice_id,omitempty"`
	Error     *string `json:"error,omitempty"`
}

// ImportFiles imports several invoice files against the contract's first
// purchase order: XML as NFe, Excel and CSV as item sheets.
func (s *Service) ImportFiles(ctx context.Context, contractID int64, files []File) ([]FileResult, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("no files uploaded")
	}
	orders, err := s.store.ListPurchaseOrders(ctx, model.OrderFilter{ContractID: &contractID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.Validation("contract %d has no purchase orders", contractID)
	}
	orderID := orders[0].ID

	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		r := FileResult{Filename: f.Name}
		var inv *model.Invoice
		var err error
		switch ext := f.Ext(); {
		case ext == ".xml":
			var imp *InvoiceImport
			imp, err = s.ImportInvoiceXML(ctx, model.LinkToBoth(contractID, orderID), f)
			if imp != nil {
				inv = imp.Invoice
			}
		case isExcel(ext) || ext == ".csv" || ext == ".xls":
			var imp *SheetImport
			imp, err = s.ImportInvoiceSheet(ctx, orderID, f, "", 0)
			if imp != nil {
				inv = imp.Invoice
			}
		default:
			err = apperr.Validation("unsupported file type %q", ext)
		}
		if err != nil {
			msg := apperr.Message(err)
			if msg == "" {
				msg = "import failed"
				s.log.Error("bulk file import failed", zap.String("file", f.Name), zap.Error(err))
			}
			r.Error = &msg
		} else {
			r.Success = true
			r.InvoiceID = &inv.ID
		}
		results = append(results, r)
	}
	return results, nil
}

// FileInfo describes an uploaded file before import.
type FileInfo struct {
	Filename string   `json:"filename"`
	Size     int64    `json:"size"`
	Type     string   `json:"type,omitempty"`
	Valid    bool     `json:"valid"`
	Sheets   []string `json:"sheets"`
}

// ValidateFile reports the import type of a file and, for Excel, its sheets.
func ValidateFile(name string, r io.Reader) (*FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "importer: read upload")
	}
	info := &FileInfo{Filename: name, Size: int64(len(data)), Sheets: []string{}}

	switch ext := (File{Name: name}).Ext(); ext {
	case ".xls":
		info.Type = "excel"
	case ".xlsx", ".xlsm":
		info.Type, info.Valid = "excel", true
		if sheets, err := ingest.SheetNames(data); err == nil {
			info.Sheets = sheets
		}
	case ".xml":
		info.Type, info.Valid = "xml", bytes.Contains(data, []byte("<"))
	case ".csv":
		info.Type, info.Valid = "csv", true
	case ".zip":
		info.Type, info.Valid = "zip", true
	}
	return info, nil
}
