package workflow

// Canonical frontend paths the gate redirects to. The API does not
// serve these pages; it hands the path back to the client so there is
// always an actionable next step.
const (
	PathPartnerLogin = "/partner/login"
	PathStaffLogin   = "/staff/login"

	PathAdminHome   = "/admin/dashboard"
	PathGMHome      = "/review/gm"
	PathCOOHome     = "/review/coo"
	PathDonorHome   = "/donor/home"
	PathPartnerHome = "/partner/home"

	PathVerifyEmail  = "/onboarding/verify-email"
	PathSectionA     = "/onboarding/section-a"
	PathSectionB     = "/onboarding/section-b"
	PathSectionC     = "/onboarding/section-c"
	PathReviewStatus = "/onboarding/review-status"
)

// SessionContext is the identity snapshot the gate evaluates against.
// It is rebuilt from the session on every request; the gate itself
// holds no state, so an asynchronous status change (a reviewer
// deciding while the partner is idle) takes effect on the partner's
// next navigation.
type SessionContext struct {
	Authenticated bool
	Role          Role
	EmailVerified bool
	OrgStatus     Status
}

// Destination describes a protected route's requirements.
type Destination struct {
	Path string

	// RequiredRole restricts the destination to one role. Empty means
	// any authenticated caller.
	RequiredRole Role

	// RequireVerified additionally demands a verified email address.
	RequireVerified bool

	// RequiredStatus restricts the destination to organizations in one
	// of these statuses, matched after under-review normalization.
	// Empty means any status.
	RequiredStatus []Status
}

// GateResult is either an allow or a redirect; Redirect is non-empty
// exactly when Allowed is false.
type GateResult struct {
	Allowed  bool
	Redirect string
}

// EvaluateGate decides whether sess may reach dest. Pure function of
// its inputs.
func EvaluateGate(sess SessionContext, dest Destination) GateResult {
	if !sess.Authenticated {
		return GateResult{Redirect: loginPath(dest.RequiredRole)}
	}
	if dest.RequiredRole != "" && sess.Role != dest.RequiredRole {
		return GateResult{Redirect: RoleLanding(sess.Role)}
	}
	if dest.RequireVerified && !sess.EmailVerified {
		return GateResult{Redirect: PathVerifyEmail}
	}
	if len(dest.RequiredStatus) > 0 {
		current := Normalize(sess.OrgStatus)
		for _, s := range dest.RequiredStatus {
			if Normalize(s) == current {
				return GateResult{Allowed: true}
			}
		}
		return GateResult{Redirect: RedirectPathForStatus(sess.OrgStatus)}
	}
	return GateResult{Allowed: true}
}

// RoleLanding maps a role to its home page. Total over all roles:
// anything unrecognized lands on the partner home.
func RoleLanding(role Role) string {
	switch role {
	case RoleAdmin:
		return PathAdminHome
	case RoleGrantsManager:
		return PathGMHome
	case RoleChiefOperations:
		return PathCOOHome
	case RoleDonor:
		return PathDonorHome
	default:
		return PathPartnerHome
	}
}

// RedirectPathForStatus maps an organization status to the canonical
// page for that status. Unknown values fall back to Section A rather
// than dead-ending the partner.
func RedirectPathForStatus(s Status) string {
	switch Normalize(s) {
	case StatusEmailPending:
		return PathVerifyEmail
	case StatusSectionAPending:
		return PathSectionA
	case StatusSectionBPending:
		return PathSectionB
	case StatusSectionCPending:
		return PathSectionC
	case StatusUnderReview, StatusChangesRequested:
		return PathReviewStatus
	case StatusFinalized:
		return PathPartnerHome
	default:
		return PathSectionA
	}
}

func loginPath(required Role) string {
	switch required {
	case RoleGrantsManager, RoleChiefOperations, RoleAdmin, RoleDonor:
		return PathStaffLogin
	default:
		return PathPartnerLogin
	}
}
