package store

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contract-costs/internal/model"
)

func (s *PostgresStore) AppendAudit(ctx context.Context, entry *model.AuditLog) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO audit_logs (user_id, action, entity_type, entity_id, old_values, new_values,
			description, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`,
		entry.UserID, entry.Action, entry.Entity.Kind, entry.Entity.ID, nullJSON(entry.OldValues),
		nullJSON(entry.NewValues), entry.Description, entry.IPAddress, entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return writeErr(err, "insert audit log")
	}
	return nil
}

// nullJSON keeps empty payloads NULL instead of writing invalid JSON.
func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// ListAudit returns the newest audit rows for an entity. A zero ref ID lists
// every row of the kind.
func (s *PostgresStore) ListAudit(ctx context.Context, ref model.EntityRef, limit int) ([]model.AuditLog, error) {
	query := `SELECT id, user_id, action, entity_type, entity_id, old_values, new_values, description,
		ip_address, user_agent, created_at
	FROM audit_logs WHERE entity_type = $1`
	args := []any{ref.Kind}
	if ref.ID != 0 {
		args = append(args, ref.ID)
		query += fmt.Sprintf(` AND entity_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	query, args = pager(query, args, limit, 0)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list audit logs")
	}
	return collect(rows, "audit log", func(r rowScanner) (model.AuditLog, error) {
		var a model.AuditLog
		var oldV, newV []byte
		err := r.Scan(&a.ID, &a.UserID, &a.Action, &a.Entity.Kind, &a.Entity.ID, &oldV, &newV,
			&a.Description, &a.IPAddress, &a.UserAgent, &a.CreatedAt)
		a.OldValues, a.NewValues = oldV, newV
		return a, err
	})
}

// CreateAttachment records an uploaded file. Re-uploading the same original
// filename for an entity bumps the version.
func (s *PostgresStore) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	var version int32
	err := s.pool.QueryRow(ctx,
		`INSERT INTO attachments (filename, original_filename, file_path, file_size, mime_type,
			attachment_type, description, version, entity_type, entity_id, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			COALESCE((SELECT MAX(version) FROM attachments
				WHERE entity_type = $8 AND entity_id = $9 AND original_filename = $2), 0) + 1,
			$8, $9, $10)
		RETURNING id, version, created_at`,
		a.Filename, a.OriginalFilename, a.FilePath, a.FileSize, a.MimeType, a.Type, a.Description,
		a.Entity.Kind, a.Entity.ID, a.UploadedBy,
	).Scan(&a.ID, &version, &a.CreatedAt)
	if err != nil {
		return writeErr(err, "insert attachment")
	}
	a.Version = int(version)
	return nil
}

func (s *PostgresStore) ListAttachments(ctx context.Context, ref model.EntityRef) ([]model.Attachment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, original_filename, file_path, file_size, mime_type, attachment_type,
			description, version, entity_type, entity_id, uploaded_by, created_at
		FROM attachments WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC`, ref.Kind, ref.ID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list attachments")
	}
	return collect(rows, "attachment", func(r rowScanner) (model.Attachment, error) {
		var a model.Attachment
		var version int32
		err := r.Scan(&a.ID, &a.Filename, &a.OriginalFilename, &a.FilePath, &a.FileSize, &a.MimeType,
			&a.Type, &a.Description, &version, &a.Entity.Kind, &a.Entity.ID, &a.UploadedBy, &a.CreatedAt)
		a.Version = int(version)
		return a, err
	})
}
