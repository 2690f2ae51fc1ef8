package workflow

import "errors"

// Status is an organization's position in the onboarding and review
// workflow. The set is closed: every organization holds exactly one of
// these values from creation until it reaches a terminal status.
type Status string

const (
	StatusEmailPending     Status = "email_pending"
	StatusSectionAPending  Status = "a_pending"
	StatusSectionBPending  Status = "b_pending"
	StatusSectionCPending  Status = "c_pending"
	StatusUnderReviewGM    Status = "under_review_gm"
	StatusUnderReviewCOO   Status = "under_review_coo"
	StatusChangesRequested Status = "changes_requested"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusFinalized        Status = "finalized"

	// StatusUnderReview is a derived alias matching either under-review
	// status. Used for grouping and route matching, never stored.
	StatusUnderReview Status = "under_review"
)

// AllStatuses lists every storable status in normal progression order.
var AllStatuses = []Status{
	StatusEmailPending,
	StatusSectionAPending,
	StatusSectionBPending,
	StatusSectionCPending,
	StatusUnderReviewGM,
	StatusUnderReviewCOO,
	StatusChangesRequested,
	StatusApproved,
	StatusRejected,
	StatusFinalized,
}

// Role identifies the kind of actor making a request.
type Role string

const (
	RolePartner         Role = "partner_user"
	RoleGrantsManager   Role = "grants_manager"
	RoleChiefOperations Role = "chief_operations_officer"
	RoleAdmin           Role = "admin"
	RoleDonor           Role = "donor"
)

// Event is a workflow trigger: a partner completing a stage or a
// reviewer recording a decision.
type Event string

const (
	EventEmailVerified     Event = "email_verified"
	EventSectionASubmitted Event = "section_a_submitted"
	EventSectionBSubmitted Event = "section_b_submitted"
	EventSectionCSubmitted Event = "section_c_submitted"
	EventDecisionApprove   Event = "decision_approve"
	EventDecisionChanges   Event = "decision_changes_requested"
	EventDecisionReject    Event = "decision_reject"
	EventRestart           Event = "restart"
)

// Outcome is a reviewer's decision as received on the wire.
type Outcome string

const (
	OutcomeApprove          Outcome = "approve"
	OutcomeChangesRequested Outcome = "changes_requested"
	OutcomeReject           Outcome = "reject"
)

// Event maps a decision outcome to its workflow event.
func (o Outcome) Event() (Event, bool) {
	switch o {
	case OutcomeApprove:
		return EventDecisionApprove, true
	case OutcomeChangesRequested:
		return EventDecisionChanges, true
	case OutcomeReject:
		return EventDecisionReject, true
	default:
		return "", false
	}
}

var (
	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrForbiddenActor    = errors.New("actor role may not trigger this event")
)

// rule is one legal transition: the destination status and the only
// role allowed to trigger it.
type rule struct {
	to    Status
	actor Role
}

// transitionTable is the single authority on legal transitions.
// Statuses absent from the table (rejected, finalized, approved) have
// no outgoing transitions.
var transitionTable = map[Status]map[Event]rule{
	StatusEmailPending: {
		EventEmailVerified: {StatusSectionAPending, RolePartner},
	},
	StatusSectionAPending: {
		EventSectionASubmitted: {StatusSectionBPending, RolePartner},
	},
	StatusSectionBPending: {
		EventSectionBSubmitted: {StatusSectionCPending, RolePartner},
	},
	StatusSectionCPending: {
		EventSectionCSubmitted: {StatusUnderReviewGM, RolePartner},
	},
	StatusUnderReviewGM: {
		// GM approval escalates to the second reviewer tier.
		EventDecisionApprove: {StatusUnderReviewCOO, RoleGrantsManager},
		EventDecisionChanges: {StatusChangesRequested, RoleGrantsManager},
		EventDecisionReject:  {StatusRejected, RoleGrantsManager},
	},
	StatusUnderReviewCOO: {
		EventDecisionApprove: {StatusFinalized, RoleChiefOperations},
		EventDecisionChanges: {StatusChangesRequested, RoleChiefOperations},
		EventDecisionReject:  {StatusRejected, RoleChiefOperations},
	},
	StatusChangesRequested: {
		// Restart re-enters the submission pipeline at Section A.
		EventRestart: {StatusSectionAPending, RolePartner},
	},
}

// Transition returns the status an organization moves to when event is
// triggered by actor, or an error when the triple is not in the legal
// transition table. It never silently no-ops.
func Transition(current Status, event Event, actor Role) (Status, error) {
	if !current.Valid() {
		return "", ErrUnknownStatus
	}
	rules, ok := transitionTable[current]
	if !ok {
		return "", ErrInvalidTransition
	}
	r, ok := rules[event]
	if !ok {
		return "", ErrInvalidTransition
	}
	if actor != r.actor {
		return "", ErrForbiddenActor
	}
	return r.to, nil
}

// Valid reports whether s is a member of the closed storable enum.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are permitted from s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusFinalized
}

// Normalize collapses the two under-review statuses into the
// StatusUnderReview alias; all other values pass through unchanged.
func Normalize(s Status) Status {
	if s == StatusUnderReviewGM || s == StatusUnderReviewCOO {
		return StatusUnderReview
	}
	return s
}

// ReviewerQueues binds each reviewer role to the status it decides on.
// Adding a reviewer tier means adding a row here and to the transition
// table, nothing else.
var ReviewerQueues = map[Role]Status{
	RoleGrantsManager:   StatusUnderReviewGM,
	RoleChiefOperations: StatusUnderReviewCOO,
}
