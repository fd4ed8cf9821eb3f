package models

// Scope is the unit of ownership for profile rows: one profile as reported
// by one source record. Reconciliation never touches rows outside it.
type Scope struct {
	ProfileID string `json:"profile_id" validate:"required"`
	Source    string `json:"source" validate:"required"`
	SourceID  string `json:"source_id" validate:"required"`
}
