package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cronhq/cron-console/internal/classify"
	"github.com/cronhq/cron-console/internal/transport"
	"github.com/cronhq/cron-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// LogView displays a single job's log text.
type LogView interface {
	SetLogText(jobID int, text string)
}

// LogViewer fetches and clears one job's execution log, independent of the
// job-list state. Log refresh is pull-on-demand; there is no push.
type LogViewer struct {
	client   *transport.Client
	logger   *logrus.Logger
	view     LogView
	notifier Notifier
	confirm  ConfirmFunc
	inflight *inflightSet
}

func NewLogViewer(client *transport.Client, logger *logrus.Logger, view LogView, notifier Notifier, confirm ConfirmFunc) *LogViewer {
	return &LogViewer{
		client:   client,
		logger:   logger,
		view:     view,
		notifier: notifier,
		confirm:  confirm,
		inflight: newInflightSet(),
	}
}

// Refresh replaces the displayed log with the server's current content. An
// empty log is a valid, displayable value. On failure the prior text is left
// untouched and only a message is shown.
func (v *LogViewer) Refresh(ctx context.Context, jobID int) (types.Outcome, error) {
	if !v.inflight.begin(jobID, types.ActionRefreshLogs) {
		return types.Outcome{}, ErrInFlight
	}
	defer v.inflight.end(jobID, types.ActionRefreshLogs)

	res, err := v.client.Send(ctx, http.MethodGet, fmt.Sprintf("refresh_logs/%d/", jobID), nil)
	outcome := classify.Classify(types.ActionRefreshLogs, res, err)

	if outcome.OK() {
		content, _ := res.Body.String("log_content")
		v.view.SetLogText(jobID, content)
		v.notifier.Success(outcome.Message)
	} else {
		v.logger.WithFields(logrus.Fields{
			"job_id":  jobID,
			"outcome": outcome.Kind.String(),
		}).Warn("Log refresh failed")
		present(v.notifier, outcome)
	}
	return outcome, nil
}

// Clear resets the job's log to empty after confirmation. Clearing is not
// optimistic: the displayed text only empties once the server confirms.
func (v *LogViewer) Clear(ctx context.Context, jobID int) (types.Outcome, error) {
	if v.confirm != nil && !v.confirm(fmt.Sprintf("Clear all logs for job %d?", jobID)) {
		return types.Outcome{}, ErrNotConfirmed
	}

	if !v.inflight.begin(jobID, types.ActionClearLogs) {
		return types.Outcome{}, ErrInFlight
	}
	defer v.inflight.end(jobID, types.ActionClearLogs)

	res, err := v.client.Send(ctx, http.MethodPost, fmt.Sprintf("clear_logs/%d/", jobID), nil)
	outcome := classify.Classify(types.ActionClearLogs, res, err)

	if outcome.OK() {
		v.view.SetLogText(jobID, "")
		v.notifier.Success(outcome.Message)
	} else {
		present(v.notifier, outcome)
	}
	return outcome, nil
}
