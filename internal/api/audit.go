package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/attach"
	"github.com/sells-group/contract-costs/internal/model"
)

// entityRef reads an entity_type/entity_id pair from get.
func entityRef(get func(string) string) (model.EntityRef, error) {
	kind, err := model.ParseEntityKind(strings.TrimSpace(get("entity_type")))
	if err != nil {
		return model.EntityRef{}, apperr.Wrap(apperr.KindValidation, err, "invalid entity_type")
	}
	raw := strings.TrimSpace(get("entity_id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return model.EntityRef{}, apperr.Validation("invalid entity_id %q", raw)
	}
	return model.Ref(kind, id), nil
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	ref, err := entityRef(r.URL.Query().Get)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.Store.ListAudit(r.Context(), ref, min(max(limit, 1), maxLimit))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if out == nil {
		out = []model.AuditLog{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	ref, err := entityRef(r.FormValue)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	typ := model.AttachOther
	if v := strings.TrimSpace(r.FormValue("attachment_type")); v != "" {
		typ = model.AttachmentType(v)
	}
	if !typ.Valid() {
		s.fail(w, r, apperr.Validation("invalid attachment_type %q", typ))
		return
	}
	file, err := formFile(r, "file")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.Attach.Save(r.Context(), attach.Upload{
		Name:        file.Name,
		Data:        file.Data,
		Type:        typ,
		Description: formString(r, "description"),
		Entity:      ref,
		UploadedBy:  &currentUser(r).ID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	ref, err := entityRef(r.URL.Query().Get)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.Attach.List(r.Context(), ref)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if out == nil {
		out = []model.Attachment{}
	}
	writeJSON(w, http.StatusOK, out)
}
