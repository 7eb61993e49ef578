// Package classify maps raw HTTP results onto the fixed outcome taxonomy.
//
// The backend reuses status codes with different meanings per endpoint:
// a 404 from create_job means the cron expression failed to parse, while a
// 404 from run_job means the job is gone; a 500 from update_job is likewise
// a schedule parse failure. Those overloads are encoded in an explicit
// action-by-status table rather than a global switch, so adding an action
// cannot silently misclassify another.
package classify

import (
	"fmt"

	"github.com/cronhq/cron-console/internal/transport"
	"github.com/cronhq/cron-console/pkg/types"
)

const (
	msgInvalidSchedule = "Make sure the cron expression is valid."
	msgNotFound        = "Job not found"
	msgAlreadyRunning  = "Job is already running"
	msgServerError     = "Internal server error"
)

// statusTable is the per-action mapping for statuses the backend is known to
// overload. Statuses absent from an action's row fall through to the generic
// rules in Classify.
var statusTable = map[types.Action]map[int]types.OutcomeKind{
	types.ActionCreate: {
		404: types.KindValidation,
		500: types.KindServerError,
	},
	types.ActionUpdate: {
		404: types.KindValidation,
		500: types.KindValidation,
	},
	types.ActionDelete: {
		404: types.KindNotFound,
		500: types.KindServerError,
	},
	types.ActionRun: {
		404: types.KindNotFound,
		409: types.KindConflict,
		500: types.KindServerError,
	},
	types.ActionToggle: {
		404: types.KindNotFound,
		500: types.KindServerError,
	},
	types.ActionRefreshLogs: {
		404: types.KindNotFound,
		500: types.KindServerError,
	},
	types.ActionClearLogs: {
		404: types.KindNotFound,
		500: types.KindServerError,
	},
}

// successDefaults is the message shown for a success with no message field.
var successDefaults = map[types.Action]string{
	types.ActionCreate:      "Job created",
	types.ActionUpdate:      "Successfully updated data.",
	types.ActionDelete:      "Job deleted",
	types.ActionRun:         "Job started",
	types.ActionToggle:      "Job updated",
	types.ActionRefreshLogs: "Logs refreshed",
	types.ActionClearLogs:   "Logs cleared successfully",
}

// Classify turns one transport result (or transport failure) into an
// Outcome. It is a pure function of its inputs.
func Classify(action types.Action, res *transport.Result, sendErr error) types.Outcome {
	if sendErr != nil {
		return types.Outcome{
			Kind:    types.KindNetworkError,
			Message: sendErr.Error(),
		}
	}

	if res.Status >= 200 && res.Status < 300 {
		return classifySuccess(action, res)
	}

	if kind, ok := statusTable[action][res.Status]; ok {
		return types.Outcome{Kind: kind, Message: messageFor(kind, res)}
	}

	return unknown(res)
}

func classifySuccess(action types.Action, res *transport.Result) types.Outcome {
	switch action {
	case types.ActionCreate, types.ActionUpdate, types.ActionDelete:
		// These endpoints return no reliable success flag; any 2xx counts.
		return types.Outcome{
			Kind:    types.KindSuccess,
			Message: successMessage(action, res),
		}
	default:
		if ok, present := res.Body.Bool("success"); present && ok {
			return types.Outcome{
				Kind:    types.KindSuccess,
				Message: successMessage(action, res),
			}
		}
		// 2xx without an explicit success flag is an unrecognized shape.
		return unknown(res)
	}
}

func successMessage(action types.Action, res *transport.Result) string {
	if msg, ok := res.Body.String("message"); ok && msg != "" {
		return msg
	}
	return successDefaults[action]
}

func messageFor(kind types.OutcomeKind, res *transport.Result) string {
	detail, _ := res.Body.String("detail")

	switch kind {
	case types.KindValidation:
		return msgInvalidSchedule
	case types.KindNotFound:
		return msgNotFound
	case types.KindConflict:
		if detail != "" {
			return detail
		}
		return msgAlreadyRunning
	case types.KindServerError:
		if detail != "" {
			return detail
		}
		return msgServerError
	}
	return msgServerError
}

func unknown(res *transport.Result) types.Outcome {
	if msg, ok := res.Body.String("message"); ok && msg != "" {
		return types.Outcome{Kind: types.KindUnknown, Message: msg}
	}
	if detail, ok := res.Body.String("detail"); ok && detail != "" {
		return types.Outcome{Kind: types.KindUnknown, Message: detail}
	}
	return types.Outcome{
		Kind:    types.KindUnknown,
		Message: fmt.Sprintf("Unexpected response from server (status %d)", res.Status),
	}
}
