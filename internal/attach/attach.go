// Package attach stores uploaded files on disk and records them as
// attachments of an entity.
package attach

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/model"
)

// Store is the attachment persistence.
type Store interface {
	CreateAttachment(ctx context.Context, a *model.Attachment) error
	ListAttachments(ctx context.Context, ref model.EntityRef) ([]model.Attachment, error)
}

// Upload is one file to store.
type Upload struct {
	Name        string
	Data        []byte
	Type        model.AttachmentType
	Description *string
	Entity      model.EntityRef
	UploadedBy  *int64
}

// Service writes uploads under a root directory.
type Service struct {
	store Store
	dir   string
}

// NewService creates an attachment service rooted at dir.
func NewService(st Store, dir string) *Service {
	return &Service{store: st, dir: dir}
}

// Save writes the file under <dir>/<entity kind>/<uuid><ext> and records it.
// Repeated uploads of the same original name get increasing versions. The
// file is removed again when the row cannot be written.
func (s *Service) Save(ctx context.Context, up Upload) (*model.Attachment, error) {
	if up.Name == "" || len(up.Data) == 0 {
		return nil, apperr.Validation("attachment file is empty")
	}
	if up.Type == "" {
		up.Type = model.AttachOther
	}
	if !up.Type.Valid() {
		return nil, apperr.Validation("unknown attachment type %q", up.Type)
	}

	orig := filepath.Base(up.Name)
	ext := strings.ToLower(filepath.Ext(orig))
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dir := filepath.Join(s.dir, string(up.Entity.Kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "attach: create directory")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, up.Data, 0o644); err != nil {
		return nil, eris.Wrap(err, "attach: write file")
	}

	a := &model.Attachment{
		Filename:         name,
		OriginalFilename: orig,
		FilePath:         path,
		FileSize:         int64(len(up.Data)),
		Type:             up.Type,
		Description:      up.Description,
		Entity:           up.Entity,
		UploadedBy:       up.UploadedBy,
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		a.MimeType = &mt
	}

	if err := s.store.CreateAttachment(ctx, a); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			zap.L().Warn("attach: remove orphaned file", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}
	return a, nil
}

// List returns the attachments of an entity, newest first.
func (s *Service) List(ctx context.Context, ref model.EntityRef) ([]model.Attachment, error) {
	return s.store.ListAttachments(ctx, ref)
}
