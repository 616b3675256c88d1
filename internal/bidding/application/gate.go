package application

import (
	"context"
	"time"

	"github.com/heavymart/bidgate/internal/bidding/domain"
	"github.com/heavymart/bidgate/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// EligibilityGate ensures a caller is authenticated and identity-verified
// before a bid or buy-now action executes. It is stateless between
// invocations and always re-queries both collaborators, verification status
// can change between page load and the moment the user acts.
type EligibilityGate struct {
	sessions          domain.SessionSource
	identity          domain.IdentitySource
	loginRoute        string
	verificationRoute string
	rejectDelay       time.Duration
}

func NewEligibilityGate(sessions domain.SessionSource, identity domain.IdentitySource,
	loginRoute, verificationRoute string, rejectDelay time.Duration) *EligibilityGate {

	return &EligibilityGate{
		sessions:          sessions,
		identity:          identity,
		loginRoute:        loginRoute,
		verificationRoute: verificationRoute,
		rejectDelay:       rejectDelay,
	}
}

// Check evaluates the gate top to bottom, short-circuiting on the first
// failing step. returnTo is the route the caller was gated on; it is carried
// percent-encoded through every remediation redirect so the user resumes
// where they left off. The identity collaborator is only consulted once
// session validity is confirmed, an unauthenticated caller never sees a
// verification prompt.
func (g *EligibilityGate) Check(ctx context.Context, token, returnTo string) domain.GateResult {
	session, err := g.sessions.CheckSession(ctx, token)
	if err != nil || !session.Success || !session.IsLoggedIn {
		if err != nil {
			log.Warn("EligibilityGate: session check failed, treating as logged out", zap.Error(err))
		}
		return domain.GateResult{
			Outcome:  domain.GateNeedsLogin,
			Notice:   "Please sign in to continue.",
			Redirect: domain.WithReturnURL(g.loginRoute, returnTo),
		}
	}

	status, err := g.identity.CheckStatus(ctx, token)
	if err != nil {
		// a transient failure must not bounce the user to the upload screen,
		// treat it like a still-pending verification and let them retry
		log.Warn("EligibilityGate: identity check failed", zap.Error(err))
		return domain.GateResult{
			Outcome: domain.GateVerificationPending,
			Notice:  "We could not confirm your verification status. Please try again shortly.",
		}
	}

	switch {
	case !status.IsUpload:
		return domain.GateResult{
			Outcome:  domain.GateNeedsVerificationUpload,
			Notice:   "Please upload your identity or dealer license documents before bidding.",
			Redirect: domain.WithReturnURL(g.verificationRoute, returnTo),
		}
	case status.IsReject:
		// rejection takes precedence over pending; the delay lets the user
		// read the notice before navigation
		return domain.GateResult{
			Outcome:       domain.GateVerificationRejected,
			Notice:        "Your verification was rejected. Please submit new documents.",
			Redirect:      domain.WithReturnURL(g.verificationRoute, returnTo),
			RedirectDelay: g.rejectDelay,
		}
	case !status.IsVerify:
		// pending keeps the user on the current page, no redirect
		return domain.GateResult{
			Outcome: domain.GateVerificationPending,
			Notice:  "Your verification is still under review. Please try again once it completes.",
		}
	}

	return domain.GateResult{Outcome: domain.GatePass}
}
