package types

// Action identifies a job lifecycle operation. The response classifier keys
// its status table on the action because the backend reuses the same HTTP
// status with different meanings per endpoint.
type Action string

const (
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionRun         Action = "run"
	ActionToggle      Action = "toggle"
	ActionRefreshLogs Action = "refresh_logs"
	ActionClearLogs   Action = "clear_logs"
)

// OutcomeKind is the fixed set of classifications for an action's result.
type OutcomeKind int

const (
	KindSuccess OutcomeKind = iota
	KindConflict
	KindNotFound
	KindValidation
	KindServerError
	KindNetworkError
	KindUnknown
)

func (k OutcomeKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServerError:
		return "server_error"
	case KindNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one action: what happened plus a
// message fit for direct display.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// OK reports whether the action succeeded.
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}
