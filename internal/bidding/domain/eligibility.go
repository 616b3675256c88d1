package domain

import "time"

// GateOutcome is the tagged result of an eligibility evaluation. Precedence
// is fixed by the evaluation order: login before upload, rejection before
// pending.
type GateOutcome string

const (
	GatePass                    GateOutcome = "pass"
	GateNeedsLogin              GateOutcome = "needs_login"
	GateNeedsVerificationUpload GateOutcome = "needs_verification_upload"
	GateVerificationRejected    GateOutcome = "verification_rejected"
	GateVerificationPending     GateOutcome = "verification_pending"
)

// GateResult carries the outcome plus everything the caller needs to react:
// a user-legible notice for every non-pass outcome, an optional remediation
// redirect with the encoded return context, and a delay for the rejected case
// so the user can read the notice before navigation.
type GateResult struct {
	Outcome       GateOutcome
	Notice        string
	Redirect      string
	RedirectDelay time.Duration
}

// Passed reports whether the caller may proceed with the gated action.
func (r GateResult) Passed() bool {
	return r.Outcome == GatePass
}

// SessionStatus is the session-validity collaborator's answer.
type SessionStatus struct {
	Success    bool `json:"success"`
	IsLoggedIn bool `json:"is_logged_in"`
}

// IdentityStatus is the identity-verification collaborator's answer. IsUpload
// reports whether a document was ever submitted, IsReject whether the last
// submission was rejected, IsVerify whether verification completed.
type IdentityStatus struct {
	IsUpload bool `json:"is_upload"`
	IsReject bool `json:"is_reject"`
	IsVerify bool `json:"is_verify"`
}
