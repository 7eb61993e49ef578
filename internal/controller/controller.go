// Package controller turns user intents into backend calls and keeps the
// displayed job state consistent with server state, including rollback of
// optimistic changes the server rejected.
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cronhq/cron-console/internal/classify"
	"github.com/cronhq/cron-console/internal/transport"
	"github.com/cronhq/cron-console/pkg/types"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInFlight means a request for the same job and action is still
	// outstanding; the duplicate is suppressed, not queued.
	ErrInFlight = errors.New("a request for this job and action is already in flight")

	// ErrNotConfirmed means the user declined the confirmation prompt.
	ErrNotConfirmed = errors.New("action not confirmed")
)

const msgFillAllFields = "You must fill out all fields"

// View is the rendering contract. The controller is the only writer of a
// job's displayed state, and only while holding the in-flight guard for
// that job's action.
type View interface {
	SetJobs(jobs []types.Job)
	PatchJobActive(jobID int, active bool)
	RemoveJob(jobID int)
}

// Notifier surfaces action outcomes to the user. Warnings carry a distinct
// tone from hard failures.
type Notifier interface {
	Success(message string)
	Warning(message string)
	Error(message string)
}

// ConfirmFunc asks the user to approve an irreversible action.
type ConfirmFunc func(prompt string) bool

// Controller implements the job lifecycle actions. Every action follows the
// same skeleton: check preconditions, optionally apply an optimistic change,
// send, classify, then commit-and-refresh or revert-and-report.
type Controller struct {
	client   *transport.Client
	logger   *logrus.Logger
	view     View
	notifier Notifier
	confirm  ConfirmFunc
	inflight *inflightSet
	snapshot *Snapshot
}

func New(client *transport.Client, logger *logrus.Logger, view View, notifier Notifier, confirm ConfirmFunc) *Controller {
	return &Controller{
		client:   client,
		logger:   logger,
		view:     view,
		notifier: notifier,
		confirm:  confirm,
		inflight: newInflightSet(),
		snapshot: NewSnapshot(),
	}
}

// Snapshot exposes the last server-confirmed job state, e.g. for
// pre-populating the edit form.
func (c *Controller) Snapshot() *Snapshot {
	return c.snapshot
}

// RefreshAll refetches the job list and re-renders the table. This replaces
// the original full-page reload so the controller stays testable without a
// page harness.
func (c *Controller) RefreshAll(ctx context.Context) error {
	res, err := c.client.Send(ctx, http.MethodGet, "jobs/", nil)
	if err != nil {
		return err
	}
	if res.Status != http.StatusOK {
		return fmt.Errorf("job list request returned status %d", res.Status)
	}

	var jobs []types.Job
	if err := json.Unmarshal(res.Raw, &jobs); err != nil {
		return fmt.Errorf("failed to decode job list: %w", err)
	}

	c.snapshot.SetAll(jobs)
	c.view.SetJobs(jobs)
	return nil
}

// Create submits a new job. Precondition: all three fields non-empty; no
// format validation happens here, an invalid schedule comes back from the
// server as a Validation outcome. On success the caller should close the
// form; on Validation the form stays open so input is not lost.
func (c *Controller) Create(ctx context.Context, req types.JobRequest) (types.Outcome, error) {
	if !req.Complete() {
		outcome := types.Outcome{Kind: types.KindValidation, Message: msgFillAllFields}
		c.notifier.Error(outcome.Message)
		return outcome, nil
	}

	res, err := c.client.Send(ctx, http.MethodPost, "create_job/", req)
	outcome := classify.Classify(types.ActionCreate, res, err)
	c.logOutcome(types.ActionCreate, 0, outcome)

	if outcome.OK() {
		c.notifier.Success(outcome.Message)
		c.refreshAfter(ctx, types.ActionCreate)
	} else {
		c.present(outcome)
	}
	return outcome, nil
}

// Update rewrites a job's fields. No optimistic change: the row keeps its
// old values until the server confirms and the refetch picks up the
// recomputed next_run.
func (c *Controller) Update(ctx context.Context, jobID int, req types.JobRequest) (types.Outcome, error) {
	if !req.Complete() {
		outcome := types.Outcome{Kind: types.KindValidation, Message: msgFillAllFields}
		c.notifier.Error(outcome.Message)
		return outcome, nil
	}

	if !c.inflight.begin(jobID, types.ActionUpdate) {
		return types.Outcome{}, ErrInFlight
	}
	defer c.inflight.end(jobID, types.ActionUpdate)

	res, err := c.client.Send(ctx, http.MethodPut, fmt.Sprintf("update_job/%d/", jobID), req)
	outcome := classify.Classify(types.ActionUpdate, res, err)
	c.logOutcome(types.ActionUpdate, jobID, outcome)

	if outcome.OK() {
		c.notifier.Success(outcome.Message)
		c.refreshAfter(ctx, types.ActionUpdate)
	} else {
		c.present(outcome)
	}
	return outcome, nil
}

// Delete removes a job after explicit confirmation. The endpoint's response
// body is not reliable, so deletion is best-effort: the row is removed
// locally and a full refetch reconciles the real state.
func (c *Controller) Delete(ctx context.Context, jobID int) (types.Outcome, error) {
	if c.confirm != nil && !c.confirm(fmt.Sprintf("Are you sure you want to delete job %d?", jobID)) {
		return types.Outcome{}, ErrNotConfirmed
	}

	if !c.inflight.begin(jobID, types.ActionDelete) {
		return types.Outcome{}, ErrInFlight
	}
	defer c.inflight.end(jobID, types.ActionDelete)

	res, err := c.client.Send(ctx, http.MethodDelete, fmt.Sprintf("job/%d/", jobID), nil)
	outcome := classify.Classify(types.ActionDelete, res, err)
	c.logOutcome(types.ActionDelete, jobID, outcome)

	if outcome.OK() {
		c.view.RemoveJob(jobID)
		c.snapshot.Delete(jobID)
		c.notifier.Success(outcome.Message)
		c.refreshAfter(ctx, types.ActionDelete)
	} else {
		c.present(outcome)
	}
	return outcome, nil
}

// Run triggers an immediate out-of-band execution. Never retried: a job
// already running comes back as a Conflict and is shown as a warning, not a
// hard failure. No refresh afterwards, running is momentary state.
func (c *Controller) Run(ctx context.Context, jobID int) (types.Outcome, error) {
	if !c.inflight.begin(jobID, types.ActionRun) {
		return types.Outcome{}, ErrInFlight
	}
	defer c.inflight.end(jobID, types.ActionRun)

	res, err := c.client.Send(ctx, http.MethodGet, fmt.Sprintf("run_job/%d/", jobID), nil)
	outcome := classify.Classify(types.ActionRun, res, err)
	c.logOutcome(types.ActionRun, jobID, outcome)

	c.present(outcome)
	return outcome, nil
}

// Toggle flips a job's enabled state optimistically, then reconciles with
// the server's answer. On success the server-reported is_active wins, even
// if it disagrees with the local guess; on anything else the control reverts
// to its pre-click state.
func (c *Controller) Toggle(ctx context.Context, jobID int) (types.Outcome, error) {
	if !c.inflight.begin(jobID, types.ActionToggle) {
		return types.Outcome{}, ErrInFlight
	}
	defer c.inflight.end(jobID, types.ActionToggle)

	baseline, known := c.snapshot.Get(jobID)
	if known {
		c.view.PatchJobActive(jobID, !baseline.IsActive)
	}

	res, err := c.client.Send(ctx, http.MethodPost, fmt.Sprintf("toggle_job/%d/", jobID), nil)
	outcome := classify.Classify(types.ActionToggle, res, err)
	c.logOutcome(types.ActionToggle, jobID, outcome)

	if outcome.OK() {
		active, present := res.Body.Bool("is_active")
		if !present && known {
			active = !baseline.IsActive
		}
		c.snapshot.SetActive(jobID, active)
		c.view.PatchJobActive(jobID, active)
		c.notifier.Success(outcome.Message)
		c.refreshAfter(ctx, types.ActionToggle)
	} else {
		if known {
			c.view.PatchJobActive(jobID, baseline.IsActive)
		}
		c.present(outcome)
	}
	return outcome, nil
}

func (c *Controller) refreshAfter(ctx context.Context, action types.Action) {
	if err := c.RefreshAll(ctx); err != nil {
		c.logger.WithFields(logrus.Fields{
			"action": action,
			"error":  err.Error(),
		}).Warn("Refresh after action failed")
		c.notifier.Error(fmt.Sprintf("Failed to refresh job list: %v", err))
	}
}

func (c *Controller) present(outcome types.Outcome) {
	present(c.notifier, outcome)
}

func (c *Controller) logOutcome(action types.Action, jobID int, outcome types.Outcome) {
	c.logger.WithFields(logrus.Fields{
		"action":  action,
		"job_id":  jobID,
		"outcome": outcome.Kind.String(),
	}).Debug("Action classified")
}

// present maps an outcome onto the notifier's tones: conflicts are warnings,
// everything else non-success is an error.
func present(n Notifier, outcome types.Outcome) {
	switch outcome.Kind {
	case types.KindSuccess:
		n.Success(outcome.Message)
	case types.KindConflict:
		n.Warning(outcome.Message)
	default:
		n.Error(outcome.Message)
	}
}
