package model

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

// EntityKind names the kinds of records that audit rows and attachments can
// refer to.
type EntityKind string

const (
	EntityContract      EntityKind = "contract"
	EntityPurchaseOrder EntityKind = "purchase_order"
	EntityQuotation     EntityKind = "quotation"
	EntityInvoice       EntityKind = "invoice"
	EntityNotaFiscal    EntityKind = "nota_fiscal"
	EntitySupplier      EntityKind = "supplier"
	EntityCostCenter    EntityKind = "cost_center"
	EntityUser          EntityKind = "user"
)

var entityKinds = []EntityKind{
	EntityContract, EntityPurchaseOrder, EntityQuotation, EntityInvoice,
	EntityNotaFiscal, EntitySupplier, EntityCostCenter, EntityUser,
}

// ParseEntityKind rejects names outside the closed set of entity kinds.
func ParseEntityKind(s string) (EntityKind, error) {
	for _, k := range entityKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", eris.Errorf("unknown entity kind %q", s)
}

// EntityRef points at one record of a known kind.
type EntityRef struct {
	Kind EntityKind `json:"entity_type"`
	ID   int64      `json:"entity_id"`
}

// Ref builds an EntityRef.
func Ref(kind EntityKind, id int64) EntityRef {
	return EntityRef{Kind: kind, ID: id}
}

// AuditAction is the verb recorded in the audit log.
type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionView   AuditAction = "view"
)

// AuditLog is one append-only audit record.
type AuditLog struct {
	ID          int64           `json:"id"`
	UserID      *int64          `json:"user_id,omitempty"`
	Action      AuditAction     `json:"action"`
	Entity      EntityRef       `json:"entity"`
	OldValues   json.RawMessage `json:"old_values,omitempty"`
	NewValues   json.RawMessage `json:"new_values,omitempty"`
	Description *string         `json:"description,omitempty"`
	IPAddress   *string         `json:"ip_address,omitempty"`
	UserAgent   *string         `json:"user_agent,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AttachmentType classifies an uploaded file.
type AttachmentType string

const (
	AttachCertificate     AttachmentType = "certificate"
	AttachDeliveryReceipt AttachmentType = "delivery_receipt"
	AttachQualityReport   AttachmentType = "quality_report"
	AttachQuotation       AttachmentType = "quotation"
	AttachNotaFiscal      AttachmentType = "nota_fiscal"
	AttachPurchaseOrder   AttachmentType = "purchase_order"
	AttachBudgetSheet     AttachmentType = "budget_sheet"
	AttachOther           AttachmentType = "other"
)

// Valid reports whether t is a known attachment type.
func (t AttachmentType) Valid() bool {
	switch t {
	case AttachCertificate, AttachDeliveryReceipt, AttachQualityReport, AttachQuotation,
		AttachNotaFiscal, AttachPurchaseOrder, AttachBudgetSheet, AttachOther:
		return true
	}
	return false
}

// Attachment is a stored file linked to an entity.
type Attachment struct {
	ID               int64          `json:"id"`
	Filename         string         `json:"filename"`
	OriginalFilename string         `json:"original_filename"`
	FilePath         string         `json:"-"`
	FileSize         int64          `json:"file_size"`
	MimeType         *string        `json:"mime_type,omitempty"`
	Type             AttachmentType `json:"attachment_type"`
	Description      *string        `json:"description,omitempty"`
	Version          int            `json:"version"`
	Entity           EntityRef      `json:"entity"`
	UploadedBy       *int64         `json:"uploaded_by,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}
