package workflow

import (
	"fmt"
	"time"
)

// =============================================================================
// TRANSITION GRAPH AND PER-STATUS PERMISSIONS
// =============================================================================

// transitions maps each status to the statuses reachable from it. Statuses
// absent from the map are terminal.
var transitions = map[Status][]Status{
	StatusDraft:              {StatusAdminReview, StatusCancelled},
	StatusAdminReview:        {StatusRequestSignatures, StatusDenied},
	StatusRequestSignatures:  {StatusAwaitingEnrollment, StatusAwaitingCommitment, StatusDenied},
	StatusAwaitingEnrollment: {StatusAwaitingCommitment, StatusCancelled},
	StatusAwaitingCommitment: {StatusAwaitingPayment},
	StatusAwaitingPayment:    {StatusAwaitingAccounts},
	StatusAwaitingAccounts:   {StatusAccountsReview},
	StatusAccountsReview:     {StatusAccountsSignatures, StatusCorrectionPending},
	StatusCorrectionPending:  {StatusAccountsReview},
	StatusAccountsSignatures: {StatusAccountingReview},
	StatusAccountingReview:   {StatusArchived},
}

// permissions maps each status to the roles allowed to act on it.
var permissions = map[Status][]Role{
	StatusDraft:              {RoleRequester},
	StatusAdminReview:        {RoleInternalControl, RoleAdmin},
	StatusRequestSignatures:  {RoleSignature},
	StatusAwaitingEnrollment: {RoleRequester},
	StatusAwaitingCommitment: {RoleAccounting},
	StatusAwaitingPayment:    {RolePayment},
	StatusAwaitingAccounts:   {RoleRequester},
	StatusAccountsReview:     {RoleInternalControl, RoleAdmin},
	StatusCorrectionPending:  {RoleRequester},
	StatusAccountsSignatures: {RoleSignature},
	StatusAccountingReview:   {RoleAccounting},
}

// =============================================================================
// ERRORS
// =============================================================================

// InvalidTransitionError is returned when the target status is not reachable
// from the current one.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// PermissionError is returned when none of the actor's roles may act on the
// process in its current status.
type PermissionError struct {
	Status Status
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("no permission to act on status %s", e.Status)
}

// =============================================================================
// ACTOR AND HISTORY
// =============================================================================

// Actor is whoever attempts a transition: a user id, their assigned role
// slugs, and whether they are the process requester. The requester always
// counts as solicitante on their own process.
type Actor struct {
	UserID      string
	Roles       []Role
	IsRequester bool
}

func (a Actor) effectiveRoles() []Role {
	if !a.IsRequester {
		return a.Roles
	}
	return append(append([]Role(nil), a.Roles...), RoleRequester)
}

// HistoryEntry records one completed transition for the audit trail.
type HistoryEntry struct {
	From       Status
	To         Status
	ActorID    string
	Note       string
	OccurredAt time.Time
}

// =============================================================================
// OPERATIONS
// =============================================================================

// CanAct reports whether the actor may operate on a process in the given
// status.
func CanAct(status Status, actor Actor) bool {
	allowed := permissions[status]
	if len(allowed) == 0 {
		return false
	}
	for _, have := range actor.effectiveRoles() {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}

// AllowedTransitions returns the statuses the actor may move the process to
// from its current status. Empty when the actor lacks permission or the
// status is terminal.
func AllowedTransitions(status Status, actor Actor) []Status {
	if !CanAct(status, actor) {
		return nil
	}
	return append([]Status(nil), transitions[status]...)
}

// Transition validates and performs one status change, returning the history
// entry to persist alongside the updated status. The process record itself
// is the caller's to update; this function only decides and documents.
func Transition(status, target Status, actor Actor, note string, now time.Time) (HistoryEntry, error) {
	valid := false
	for _, next := range transitions[status] {
		if next == target {
			valid = true
			break
		}
	}
	if !valid {
		return HistoryEntry{}, &InvalidTransitionError{From: status, To: target}
	}
	if !CanAct(status, actor) {
		return HistoryEntry{}, &PermissionError{Status: status}
	}
	return HistoryEntry{
		From:       status,
		To:         target,
		ActorID:    actor.UserID,
		Note:       note,
		OccurredAt: now,
	}, nil
}
