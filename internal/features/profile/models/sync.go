package models

// SyncHints carries optional caller-supplied profile fields for a sync.
// Empty fields are ignored; they never overwrite stored values.
type SyncHints struct {
	DisplayName string  `json:"display_name,omitempty"`
	Squad       *string `json:"squad,omitempty"`
}

// SyncSource identifies which tier of the sync chain produced a profile.
type SyncSource string

const (
	SourceRemoteAPI     SyncSource = "remote_api"
	SourceDirectWrite   SyncSource = "direct_write"
	SourceReconcile     SyncSource = "reconcile"
	SourceLocalFallback SyncSource = "local_fallback"
)

// SyncResult is the outcome of a wallet-connect sync. Degraded is true when
// the profile came from the local fallback tier rather than an authoritative
// backend, so callers can distinguish "fully synced" from "best effort".
type SyncResult struct {
	Profile  *UserProfile `json:"profile"`
	Source   SyncSource   `json:"source"`
	Degraded bool         `json:"degraded"`
}
