package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/importer"
	"github.com/sells-group/contract-costs/internal/model"
)

// parseMultipart reads a multipart form capped at server.max_upload_mb.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	limit := s.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperr.Validation("upload exceeds %d MB", s.cfg.MaxUploadMB)
		}
		return apperr.Wrap(apperr.KindValidation, err, "invalid multipart form")
	}
	return nil
}

// formFiles reads every file uploaded under field.
func formFiles(r *http.Request, field string) ([]importer.File, error) {
	if r.MultipartForm == nil {
		return nil, apperr.Validation("file %q is required", field)
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, apperr.Validation("file %q is required", field)
	}
	out := make([]importer.File, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, err, "could not open "+h.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, err, "could not read "+h.Filename)
		}
		out = append(out, importer.File{Name: h.Filename, Data: data})
	}
	return out, nil
}

// formFile reads the single file uploaded under field.
func formFile(r *http.Request, field string) (importer.File, error) {
	files, err := formFiles(r, field)
	if err != nil {
		return importer.File{}, err
	}
	return files[0], nil
}

func formString(r *http.Request, field string) *string {
	v := strings.TrimSpace(r.FormValue(field))
	if v == "" {
		return nil
	}
	return &v
}

// audit appends an audit row. Failures are logged and never fail the request.
func (s *Server) audit(r *http.Request, action model.AuditAction, ref model.EntityRef, oldV, newV any, desc string) {
	entry := &model.AuditLog{
		Action: action,
		Entity: ref,
	}
	if u := currentUser(r); u != nil {
		entry.UserID = &u.ID
	}
	if oldV != nil {
		entry.OldValues, _ = json.Marshal(oldV)
	}
	if newV != nil {
		entry.NewValues, _ = json.Marshal(newV)
	}
	if desc != "" {
		entry.Description = &desc
	}
	if ip := r.RemoteAddr; ip != "" {
		entry.IPAddress = &ip
	}
	if ua := r.UserAgent(); ua != "" {
		entry.UserAgent = &ua
	}
	if err := s.Store.AppendAudit(r.Context(), entry); err != nil {
		s.log.Warn("audit append failed",
			zap.String("entity", string(ref.Kind)),
			zap.Int64("entity_id", ref.ID),
			zap.Error(err),
		)
	}
}
