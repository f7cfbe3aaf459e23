package task

// Action names a single change to one task in the activity log.
type Action string

const (
	ActionCreate   Action = "create"
	ActionComplete Action = "complete"
	ActionReopen   Action = "reopen"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
)

// ToggleAction returns the action recorded when completion flips to completed.
func ToggleAction(completed bool) Action {
	if completed {
		return ActionComplete
	}
	return ActionReopen
}

// Icon returns the one-character marker used in log listings.
func (a Action) Icon() string {
	switch a {
	case ActionCreate:
		return "+"
	case ActionComplete:
		return "✓"
	case ActionReopen:
		return "○"
	case ActionEdit:
		return "~"
	case ActionDelete:
		return "-"
	default:
		return "?"
	}
}
