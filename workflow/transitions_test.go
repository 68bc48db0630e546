package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camara-itapoa/diaria-engine/workflow"
)

var anchor = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

// =============================================================================
// STATUS BASICS
// =============================================================================

func TestStatus_ValidAndTerminal(t *testing.T) {
	assert.True(t, workflow.StatusDraft.Valid())
	assert.False(t, workflow.Status("INEXISTENTE").Valid())

	assert.True(t, workflow.StatusArchived.Terminal())
	assert.True(t, workflow.StatusDenied.Terminal())
	assert.True(t, workflow.StatusCancelled.Terminal())
	assert.False(t, workflow.StatusAdminReview.Terminal())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Aguardando Empenho", workflow.StatusAwaitingCommitment.Label())
	assert.Equal(t, "XYZ", workflow.Status("XYZ").Label())
}

// =============================================================================
// PERMISSIONS
// =============================================================================

func TestCanAct_RoleGating(t *testing.T) {
	reviewer := workflow.Actor{UserID: "u1", Roles: []workflow.Role{workflow.RoleInternalControl}}
	signer := workflow.Actor{UserID: "u2", Roles: []workflow.Role{workflow.RoleSignature}}

	assert.True(t, workflow.CanAct(workflow.StatusAdminReview, reviewer))
	assert.False(t, workflow.CanAct(workflow.StatusAdminReview, signer))
	assert.True(t, workflow.CanAct(workflow.StatusRequestSignatures, signer))
}

func TestCanAct_RequesterAlwaysCountsAsSolicitante(t *testing.T) {
	// GIVEN: the process owner with no assigned roles at all
	owner := workflow.Actor{UserID: "u3", IsRequester: true}

	assert.True(t, workflow.CanAct(workflow.StatusAwaitingEnrollment, owner))
	assert.True(t, workflow.CanAct(workflow.StatusAwaitingAccounts, owner))
	assert.False(t, workflow.CanAct(workflow.StatusAwaitingPayment, owner))
}

func TestCanAct_TerminalStatusAllowsNobody(t *testing.T) {
	admin := workflow.Actor{UserID: "u4", Roles: []workflow.Role{workflow.RoleAdmin}}
	assert.False(t, workflow.CanAct(workflow.StatusArchived, admin))
	assert.False(t, workflow.CanAct(workflow.StatusDenied, admin))
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func TestAllowedTransitions(t *testing.T) {
	reviewer := workflow.Actor{UserID: "u1", Roles: []workflow.Role{workflow.RoleAdmin}}

	got := workflow.AllowedTransitions(workflow.StatusAdminReview, reviewer)
	assert.ElementsMatch(t,
		[]workflow.Status{workflow.StatusRequestSignatures, workflow.StatusDenied}, got)

	// No permission, no options.
	assert.Empty(t, workflow.AllowedTransitions(workflow.StatusAwaitingPayment, reviewer))
}

func TestTransition_Success(t *testing.T) {
	reviewer := workflow.Actor{UserID: "u1", Roles: []workflow.Role{workflow.RoleInternalControl}}

	entry, err := workflow.Transition(
		workflow.StatusAdminReview, workflow.StatusRequestSignatures,
		reviewer, "documentação conferida", anchor)
	require.NoError(t, err)

	assert.Equal(t, workflow.StatusAdminReview, entry.From)
	assert.Equal(t, workflow.StatusRequestSignatures, entry.To)
	assert.Equal(t, "u1", entry.ActorID)
	assert.Equal(t, "documentação conferida", entry.Note)
	assert.Equal(t, anchor, entry.OccurredAt)
}

func TestTransition_InvalidTarget(t *testing.T) {
	admin := workflow.Actor{UserID: "u1", Roles: []workflow.Role{workflow.RoleAdmin}}

	_, err := workflow.Transition(
		workflow.StatusAdminReview, workflow.StatusArchived, admin, "", anchor)

	var invalid *workflow.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, workflow.StatusAdminReview, invalid.From)
	assert.Equal(t, workflow.StatusArchived, invalid.To)
}

func TestTransition_MissingPermission(t *testing.T) {
	stranger := workflow.Actor{UserID: "u9"}

	_, err := workflow.Transition(
		workflow.StatusAdminReview, workflow.StatusDenied, stranger, "", anchor)

	var denied *workflow.PermissionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, workflow.StatusAdminReview, denied.Status)
}

// Every transition target is itself a valid status, and the pipeline can
// walk the happy path from draft to archive.
func TestTransition_HappyPathToArchive(t *testing.T) {
	steps := []struct {
		from, to workflow.Status
		actor    workflow.Actor
	}{
		{workflow.StatusDraft, workflow.StatusAdminReview,
			workflow.Actor{UserID: "u1", IsRequester: true}},
		{workflow.StatusAdminReview, workflow.StatusRequestSignatures,
			workflow.Actor{UserID: "u2", Roles: []workflow.Role{workflow.RoleInternalControl}}},
		{workflow.StatusRequestSignatures, workflow.StatusAwaitingEnrollment,
			workflow.Actor{UserID: "u3", Roles: []workflow.Role{workflow.RoleSignature}}},
		{workflow.StatusAwaitingEnrollment, workflow.StatusAwaitingCommitment,
			workflow.Actor{UserID: "u1", IsRequester: true}},
		{workflow.StatusAwaitingCommitment, workflow.StatusAwaitingPayment,
			workflow.Actor{UserID: "u4", Roles: []workflow.Role{workflow.RoleAccounting}}},
		{workflow.StatusAwaitingPayment, workflow.StatusAwaitingAccounts,
			workflow.Actor{UserID: "u5", Roles: []workflow.Role{workflow.RolePayment}}},
		{workflow.StatusAwaitingAccounts, workflow.StatusAccountsReview,
			workflow.Actor{UserID: "u1", IsRequester: true}},
		{workflow.StatusAccountsReview, workflow.StatusAccountsSignatures,
			workflow.Actor{UserID: "u2", Roles: []workflow.Role{workflow.RoleAdmin}}},
		{workflow.StatusAccountsSignatures, workflow.StatusAccountingReview,
			workflow.Actor{UserID: "u3", Roles: []workflow.Role{workflow.RoleSignature}}},
		{workflow.StatusAccountingReview, workflow.StatusArchived,
			workflow.Actor{UserID: "u4", Roles: []workflow.Role{workflow.RoleAccounting}}},
	}

	for _, step := range steps {
		entry, err := workflow.Transition(step.from, step.to, step.actor, "", anchor)
		require.NoError(t, err, "%s -> %s", step.from, step.to)
		assert.True(t, entry.To.Valid())
	}
}

func TestTransition_CorrectionRoundTrip(t *testing.T) {
	reviewer := workflow.Actor{UserID: "u2", Roles: []workflow.Role{workflow.RoleInternalControl}}
	owner := workflow.Actor{UserID: "u1", IsRequester: true}

	_, err := workflow.Transition(
		workflow.StatusAccountsReview, workflow.StatusCorrectionPending,
		reviewer, "faltam comprovantes", anchor)
	require.NoError(t, err)

	_, err = workflow.Transition(
		workflow.StatusCorrectionPending, workflow.StatusAccountsReview,
		owner, "comprovantes anexados", anchor)
	require.NoError(t, err)
}
