package query

// Result is what the execution collaborator returns for one sealed plan.
// Records are keyed by wire-facing field name; Total is only present when
// the plan asked for it
type Result struct {
	Records []map[string]any
	Total   *int64
	HasMore bool
}
