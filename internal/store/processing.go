package store

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/model"
)

const processingLogColumns = `id, folder_name, webhook_invoked_at, status, file_count, nf_count, message,
	error_detail, requested_by, created_at, updated_at`

func scanProcessingLog(row rowScanner) (model.ProcessingLog, error) {
	var l model.ProcessingLog
	var files, nfs *int32
	err := row.Scan(&l.ID, &l.FolderName, &l.WebhookInvokedAt, &l.Status, &files, &nfs, &l.Message,
		&l.ErrorDetail, &l.RequestedBy, &l.CreatedAt, &l.UpdatedAt)
	if files != nil {
		n := int(*files)
		l.FileCount = &n
	}
	if nfs != nil {
		n := int(*nfs)
		l.NFCount = &n
	}
	return l, err
}

// StartProcessingLog records that a folder was handed to the automation webhook.
func (s *PostgresStore) StartProcessingLog(ctx context.Context, folder string, requestedBy *int64) (*model.ProcessingLog, error) {
	l, err := scanProcessingLog(s.pool.QueryRow(ctx,
		`INSERT INTO processing_logs (folder_name, webhook_invoked_at, status, requested_by)
		VALUES ($1, now(), $2, $3) RETURNING `+processingLogColumns,
		folder, model.ProcessingStarted, requestedBy))
	if err != nil {
		return nil, writeErr(err, "insert processing log")
	}
	return &l, nil
}

func (s *PostgresStore) CompleteProcessingLog(ctx context.Context, id int64, message string) error {
	return s.finishProcessingLog(ctx, id, model.ProcessingWebhookSent, &message, nil)
}

func (s *PostgresStore) FailProcessingLog(ctx context.Context, id int64, detail string) error {
	msg := "webhook call failed"
	return s.finishProcessingLog(ctx, id, model.ProcessingError, &msg, &detail)
}

func (s *PostgresStore) finishProcessingLog(ctx context.Context, id int64, status model.ProcessingStatus, message, detail *string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE processing_logs SET status = $1, message = $2, error_detail = $3, updated_at = now()
		WHERE id = $4`, status, message, detail, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: update processing log %d", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("processing log %d not found", id)
	}
	return nil
}

// ListProcessingLogs returns logs newest first, optionally for one folder.
func (s *PostgresStore) ListProcessingLogs(ctx context.Context, folder string, limit, offset int) ([]model.ProcessingLog, error) {
	query := `SELECT ` + processingLogColumns + ` FROM processing_logs WHERE true`
	args := []any{}
	if folder != "" {
		args = append(args, folder)
		query += fmt.Sprintf(` AND folder_name = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	query, args = pager(query, args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list processing logs")
	}
	return collect(rows, "processing log", scanProcessingLog)
}
