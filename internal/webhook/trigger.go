// Package webhook starts folder processing in the external automation
// service and keeps the processing log.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/model"
	"github.com/sells-group/contract-costs/internal/resilience"
)

const logWriteTimeout = 10 * time.Second

// Store records processing logs.
type Store interface {
	StartProcessingLog(ctx context.Context, folder string, requestedBy *int64) (*model.ProcessingLog, error)
	CompleteProcessingLog(ctx context.Context, id int64, message string) error
	FailProcessingLog(ctx context.Context, id int64, detail string) error
	ListProcessingLogs(ctx context.Context, folder string, limit, offset int) ([]model.ProcessingLog, error)
}

// Payload is the JSON body posted to the automation service.
type Payload struct {
	Folder    string    `json:"nome_pasta"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
}

// Result reports an accepted trigger.
type Result struct {
	Message         string `json:"message"`
	WebhookStatus   int    `json:"webhook_status"`
	ProcessingLogID int64  `json:"processing_log_id"`
	URL             string `json:"webhook_url"`
}

// Trigger posts folder-processing requests. Calls are not retried; the
// circuit breaker fails fast while the service is down.
type Trigger struct {
	store   Store
	baseURL string
	client  *http.Client
	breaker *resilience.CircuitBreaker
	now     func() time.Time
	log     *zap.Logger
}

// NewTrigger creates a Trigger from the webhook config.
func NewTrigger(st Store, cfg config.WebhookConfig) *Trigger {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := zap.L().With(zap.String("component", "webhook"))
	bc := resilience.BreakerConfigFrom(cfg.FailureThreshold, cfg.ResetTimeoutSecs)
	bc.OnStateChange = func(from, to resilience.CircuitState) {
		log.Warn("webhook circuit changed state",
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	}
	return &Trigger{
		store:   st,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: resilience.NewCircuitBreaker(bc),
		now:     time.Now,
		log:     log,
	}
}

// FolderURL returns the endpoint for one folder.
func (t *Trigger) FolderURL(folder string) string {
	return t.baseURL + "/webhook/nome_pasta/" + url.PathEscape(folder)
}

// ProcessFolder logs the request, posts it, and records the outcome on the
// log. Any delivery failure is returned as Unavailable.
func (t *Trigger) ProcessFolder(ctx context.Context, folder string, user *model.User) (*Result, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return nil, apperr.Validation("folder name is required")
	}
	if len(folder) > 255 {
		return nil, apperr.Validation("folder name exceeds 255 characters")
	}

	pl, err := t.store.StartProcessingLog(ctx, folder, &user.ID)
	if err != nil {
		return nil, err
	}

	target := t.FolderURL(folder)
	payload := Payload{Folder: folder, UserID: user.ID, UserName: user.Username, Timestamp: t.now()}

	var status int
	err = t.breaker.Execute(ctx, func(ctx context.Context) error {
		var serr error
		status, serr = t.send(ctx, target, payload)
		return serr
	})
	if err != nil {
		detail := failureDetail(err)
		t.recordFailure(ctx, pl.ID, detail)
		t.log.Warn("webhook call failed",
			zap.String("folder", folder),
			zap.Int64("log_id", pl.ID),
			zap.Error(err),
		)
		return nil, apperr.Wrap(apperr.KindUnavailable, err, detail)
	}

	msg := fmt.Sprintf("webhook sent. status: %d", status)
	if err := t.store.CompleteProcessingLog(ctx, pl.ID, msg); err != nil {
		return nil, err
	}
	t.log.Info("folder processing requested",
		zap.String("folder", folder),
		zap.Int64("log_id", pl.ID),
		zap.Int("status", status),
	)
	return &Result{
		Message:         fmt.Sprintf("processing of folder %q started", folder),
		WebhookStatus:   status,
		ProcessingLogID: pl.ID,
		URL:             target,
	}, nil
}

// recordFailure marks the log as failed. The request may already be
// cancelled, so the write gets its own short deadline.
func (t *Trigger) recordFailure(ctx context.Context, id int64, detail string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logWriteTimeout)
	defer cancel()
	if err := t.store.FailProcessingLog(ctx, id, detail); err != nil {
		t.log.Error("could not record webhook failure", zap.Int64("log_id", id), zap.Error(err))
	}
}

// send posts the payload. Non-2xx responses come back as StatusError.
func (t *Trigger) send(ctx context.Context, target string, p Payload) (int, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return 0, eris.Wrap(err, "webhook: marshal payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return 0, eris.Wrap(err, "webhook: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, eris.Wrap(err, "webhook: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, &resilience.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	return resp.StatusCode, nil
}

func failureDetail(err error) string {
	var se *resilience.StatusError
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "automation service unavailable (circuit open)"
	case resilience.IsTimeout(err):
		return "timeout calling automation webhook"
	case errors.As(err, &se):
		return fmt.Sprintf("automation webhook returned status %d", se.StatusCode)
	}
	return "connection error: " + eris.Cause(err).Error()
}

// Logs lists processing logs newest first, optionally for one folder.
func (t *Trigger) Logs(ctx context.Context, folder string, limit, offset int) ([]model.ProcessingLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return t.store.ListProcessingLogs(ctx, strings.TrimSpace(folder), limit, offset)
}
