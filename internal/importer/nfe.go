package importer

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/ingest"
	"github.com/sells-group/contract-costs/internal/model"
)

// NFeNamespace is the XML namespace of Brazilian electronic invoices.
const NFeNamespace = "http://www.portalfiscal.inf.br/nfe"

// NFeDocument is the data read from one NFe XML.
type NFeDocument struct {
	AccessKey     string           `json:"access_key,omitempty"`
	Number        string           `json:"number"`
	Series        string           `json:"series"`
	IssueDate     time.Time        `json:"issue_date"`
	SupplierTaxID string           `json:"supplier_tax_id"`
	SupplierName  string           `json:"supplier_name"`
	TotalValue    decimal.Decimal  `json:"total_value"`
	GoodsValue    *decimal.Decimal `json:"goods_value,omitempty"`
	FreightValue  *decimal.Decimal `json:"freight_value,omitempty"`
	TaxValue      *decimal.Decimal `json:"tax_value,omitempty"`
	Items         []NFeItem        `json:"items"`
}

// NFeItem is one det/prod entry.
type NFeItem struct {
	Sequence    int              `json:"sequence"`
	ProductCode string           `json:"product_code,omitempty"`
	Description string           `json:"description"`
	NCM         string           `json:"ncm,omitempty"`
	Unit        string           `json:"unit,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitValue   *decimal.Decimal `json:"unit_value,omitempty"`
	TotalValue  decimal.Decimal  `json:"total_value"`
}

type infNFe struct {
	ID  string `xml:"Id,attr"`
	Ide struct {
		Number string `xml:"nNF"`
		Series string `xml:"serie"`
		DhEmi  string `xml:"dhEmi"`
		DEmi   string `xml:"dEmi"`
	} `xml:"ide"`
	Emit struct {
		CNPJ string `xml:"CNPJ"`
		CPF  string `xml:"CPF"`
		Name string `xml:"xNome"`
	} `xml:"emit"`
	Det []struct {
		NItem string `xml:"nItem,attr"`
		Prod  struct {
			Code        string `xml:"cProd"`
			Description string `xml:"xProd"`
			NCM         string `xml:"NCM"`
			Quantity    string `xml:"qCom"`
			Unit        string `xml:"uCom"`
			UnitValue   string `xml:"vUnCom"`
			Total       string `xml:"vProd"`
		} `xml:"prod"`
	} `xml:"det"`
	Total struct {
		ICMSTot struct {
			VNF     string `xml:"vNF"`
			VProd   string `xml:"vProd"`
			VFrete  string `xml:"vFrete"`
			VTotTri string `xml:"vTotTrib"`
		} `xml:"ICMSTot"`
	} `xml:"total"`
}

// ParseNFe reads an NFe (or nfeProc envelope). The first namespaced infNFe
// wins; an unqualified one is used only when no namespaced element exists.
// A document missing the number, issue date, total or any item's
// description or value is rejected as a whole.
func ParseNFe(r io.Reader) (*NFeDocument, error) {
	dec := ingest.NewXMLDecoder(r)

	var found, fallback *infNFe
	for found == nil {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "nfe: read xml")
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "infNFe" {
			continue
		}
		var inf infNFe
		if err := dec.DecodeElement(&inf, &se); err != nil {
			return nil, eris.Wrap(err, "nfe: decode infNFe")
		}
		if se.Name.Space == NFeNamespace {
			found = &inf
		} else if fallback == nil {
			fallback = &inf
		}
	}
	if found == nil {
		found = fallback
	}
	if found == nil {
		return nil, eris.New("nfe: infNFe element not found")
	}
	return found.document()
}

func (inf *infNFe) document() (*NFeDocument, error) {
	doc := &NFeDocument{
		AccessKey:     strings.TrimPrefix(strings.TrimSpace(inf.ID), "NFe"),
		Number:        strings.TrimSpace(inf.Ide.Number),
		Series:        strings.TrimSpace(inf.Ide.Series),
		SupplierTaxID: strings.TrimSpace(inf.Emit.CNPJ),
		SupplierName:  strings.TrimSpace(inf.Emit.Name),
	}
	if doc.SupplierTaxID == "" {
		doc.SupplierTaxID = strings.TrimSpace(inf.Emit.CPF)
	}
	if doc.Number == "" {
		return nil, eris.New("nfe: missing ide/nNF")
	}

	rawDate := inf.Ide.DhEmi
	if strings.TrimSpace(rawDate) == "" {
		rawDate = inf.Ide.DEmi
	}
	issued, err := parseNFeDate(rawDate)
	if err != nil {
		return nil, err
	}
	doc.IssueDate = issued

	total, err := requiredDecimal(inf.Total.ICMSTot.VNF, "total/ICMSTot/vNF")
	if err != nil {
		return nil, err
	}
	doc.TotalValue = total
	if doc.GoodsValue, err = optionalDecimal(inf.Total.ICMSTot.VProd, "vProd"); err != nil {
		return nil, err
	}
	if doc.FreightValue, err = optionalDecimal(inf.Total.ICMSTot.VFrete, "vFrete"); err != nil {
		return nil, err
	}
	if doc.TaxValue, err = optionalDecimal(inf.Total.ICMSTot.VTotTri, "vTotTrib"); err != nil {
		return nil, err
	}

	for i, det := range inf.Det {
		seq := i + 1
		if n, err := strconv.Atoi(strings.TrimSpace(det.NItem)); err == nil && n > 0 {
			seq = n
		}
		desc := strings.TrimSpace(det.Prod.Description)
		if desc == "" {
			return nil, eris.Errorf("nfe: item %d missing xProd", seq)
		}
		value, err := requiredDecimal(det.Prod.Total, fmt.Sprintf("item %d vProd", seq))
		if err != nil {
			return nil, err
		}
		item := NFeItem{
			Sequence:    seq,
			ProductCode: strings.TrimSpace(det.Prod.Code),
			Description: desc,
			NCM:         strings.TrimSpace(det.Prod.NCM),
			Unit:        strings.TrimSpace(det.Prod.Unit),
			TotalValue:  value,
		}
		if item.Quantity, err = optionalDecimal(det.Prod.Quantity, "qCom"); err != nil {
			return nil, err
		}
		if item.UnitValue, err = optionalDecimal(det.Prod.UnitValue, "vUnCom"); err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, item)
	}
	return doc, nil
}

// parseNFeDate accepts RFC 3339 (dhEmi) or a leading yyyy-mm-dd (dEmi).
func parseNFeDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, eris.New("nfe: missing ide/dhEmi")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if len(raw) >= 10 {
		if t, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Errorf("nfe: invalid issue date %q", raw)
}

func requiredDecimal(raw, field string) (decimal.Decimal, error) {
	d, err := optionalDecimal(raw, field)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		return decimal.Zero, eris.Errorf("nfe: missing %s", field)
	}
	return *d, nil
}

func optionalDecimal(raw, field string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, eris.Errorf("nfe: invalid %s %q", field, raw)
	}
	return &d, nil
}

// InvoiceImport reports an invoice created from a file.
type InvoiceImport struct {
	Invoice  *model.Invoice `json:"invoice"`
	Warnings []string       `json:"warnings"`
}

// ImportInvoiceXML creates an invoice and its items from an NFe XML in one
// transaction. The linked order or contract must exist. Item totals that do
// not equal quantity × unit value are reported as warnings.
func (s *Service) ImportInvoiceXML(ctx context.Context, link model.InvoiceLink, file File) (*InvoiceImport, error) {
	if link.Kind() == model.LinkNone {
		return nil, apperr.Validation("invoice must reference a purchase order or a contract")
	}
	if file.Ext() != ".xml" {
		return nil, apperr.Validation("file must be XML")
	}

	doc, err := ParseNFe(bytes.NewReader(file.Data))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "could not process XML")
	}

	name := file.Name
	inv := &model.Invoice{
		Link:          link,
		InvoiceNumber: doc.Number,
		SupplierName:  strPtr(doc.SupplierName),
		TotalValue:    doc.TotalValue,
		IssueDate:     doc.IssueDate,
		SourceFile:    &name,
		Notes:         strPtr("imported from XML: " + name),
	}
	res := &InvoiceImport{Invoice: inv, Warnings: []string{}}
	for _, it := range doc.Items {
		item := model.InvoiceItem{
			Description:     it.Description,
			CostCenterLabel: s.buckets.Label(it.Description),
			Unit:            strPtr(it.Unit),
			Quantity:        it.Quantity,
			UnitValue:       it.UnitValue,
			TotalValue:      it.TotalValue,
		}
		if !item.Reconciles() {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("item %d: quantity x unit value differs from total %s", it.Sequence, it.TotalValue))
		}
		inv.Items = append(inv.Items, item)
	}

	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, eris.Wrap(err, "could not save invoice from XML")
	}
	inv.ItemsCount = len(inv.Items)

	s.log.Info("invoice imported from xml",
		zap.Int64("invoice_id", inv.ID),
		zap.String("number", inv.InvoiceNumber),
		zap.Int("items", len(inv.Items)),
		zap.Int("warnings", len(res.Warnings)),
	)
	return res, nil
}

// DefaultNFFolder is the source folder of notas fiscais uploaded by hand.
const DefaultNFFolder = "manual_upload"

// ImportNotaFiscalXML stores an NFe as a nota fiscal with status processed.
// Items are classified with the active rule table (source "ai"). A repeated
// access key is a Conflict.
func (s *Service) ImportNotaFiscalXML(ctx context.Context, file File, folder string, contractID *int64) (*model.NotaFiscal, error) {
	if file.Ext() != ".xml" {
		return nil, apperr.Validation("file must be XML")
	}
	doc, err := ParseNFe(bytes.NewReader(file.Data))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "could not process XML")
	}
	if strings.TrimSpace(folder) == "" {
		folder = DefaultNFFolder
	}

	nf := &model.NotaFiscal{
		Number:        doc.Number,
		Series:        doc.Series,
		AccessKey:     strPtr(doc.AccessKey),
		SupplierTaxID: doc.SupplierTaxID,
		SupplierName:  doc.SupplierName,
		TotalValue:    doc.TotalValue,
		GoodsValue:    doc.GoodsValue,
		TaxValue:      doc.TaxValue,
		FreightValue:  doc.FreightValue,
		IssueDate:     doc.IssueDate,
		SourceFolder:  folder,
		Status:        model.NFProcessed,
		ContractID:    contractID,
	}

	table, err := s.rules.Table(ctx)
	if err != nil {
		return nil, err
	}
	centers := map[string]*model.CostCenter{}
	for _, it := range doc.Items {
		item := model.NotaFiscalItem{
			Sequence:          it.Sequence,
			ProductCode:       strPtr(it.ProductCode),
			Description:       it.Description,
			NCM:               strPtr(it.NCM),
			Unit:              it.Unit,
			TotalValue:        it.TotalValue,
			IntegrationStatus: model.IntegrationPending,
		}
		if it.Quantity != nil {
			item.Quantity = *it.Quantity
		}
		if it.UnitValue != nil {
			item.UnitValue = *it.UnitValue
		}

		if m := table.Classify(it.Description); m.OK() {
			cc, seen := centers[m.Code]
			if !seen {
				cc, err = s.store.GetCostCenterByCode(ctx, m.Code)
				if err != nil && !apperr.Is(err, apperr.KindNotFound) {
					return nil, err
				}
				centers[m.Code] = cc
			}
			if cc != nil {
				score := decimal.NewFromInt(int64(m.Confidence))
				src := model.SourceAI
				item.CostCenterID = &cc.ID
				item.ClassificationScore = &score
				item.ClassificationSource = &src
			}
		}
		nf.Items = append(nf.Items, item)
	}

	if err := s.store.CreateNotaFiscal(ctx, nf); err != nil {
		return nil, err
	}
	s.log.Info("nota fiscal imported",
		zap.Int64("nf_id", nf.ID),
		zap.String("number", nf.Number),
		zap.String("folder", folder),
		zap.Int("items", len(nf.Items)),
	)
	return nf, nil
}
