// Package workflow drives the lifecycle of an allowance request through the
// chamber's approval pipeline: administrative review, signatures, budget
// commitment, payment, and accountability review, ending in an archived,
// denied, or cancelled process.
//
// The pipeline is a static transition graph. Each status names the roles
// allowed to act on it; the requester always counts as "solicitante" on
// their own process regardless of assigned roles.
package workflow

// =============================================================================
// STATUS - stored values match the persisted process records
// =============================================================================

type Status string

const (
	StatusDraft               Status = "RASCUNHO"
	StatusAdminReview         Status = "ANALISE_ADMIN"
	StatusRequestSignatures   Status = "AG_ASS_SOL"
	StatusAwaitingEnrollment  Status = "AG_INSCRICAO"
	StatusAwaitingCommitment  Status = "AG_EMPENHO"
	StatusAwaitingPayment     Status = "AG_PAGAMENTO"
	StatusAwaitingAccounts    Status = "AG_PC"
	StatusAccountsReview      Status = "PC_ANALISE"
	StatusAccountsSignatures  Status = "AG_ASS_PC"
	StatusAccountingReview    Status = "PC_ANALISE_CONT"
	StatusArchived            Status = "ARQUIVADO"
	StatusCorrectionPending   Status = "CORRECAO"
	StatusDenied              Status = "INDEFERIDO"
	StatusCancelled           Status = "CANCELADO"
)

var statusLabels = map[Status]string{
	StatusDraft:              "Rascunho",
	StatusAdminReview:        "Aguardando Análise Administrativa",
	StatusRequestSignatures:  "Aguardando Assinaturas (Solicitação)",
	StatusAwaitingEnrollment: "Aguardando Comprovante de Inscrição",
	StatusAwaitingCommitment: "Aguardando Empenho",
	StatusAwaitingPayment:    "Aguardando Pagamento",
	StatusAwaitingAccounts:   "Aguardando Prestação de Contas",
	StatusAccountsReview:     "PC em Análise (Controle Interno)",
	StatusAccountsSignatures: "Aguardando Assinaturas (PC)",
	StatusAccountingReview:   "PC em Análise (Contabilidade)",
	StatusArchived:           "Processo Arquivado",
	StatusCorrectionPending:  "Correção Pendente",
	StatusDenied:             "Indeferido",
	StatusCancelled:          "Cancelado",
}

// Label returns the human-readable pt-BR name shown in listings.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	switch s {
	case StatusArchived, StatusDenied, StatusCancelled:
		return true
	}
	return false
}

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleInternalControl Role = "controle_interno"
	RoleAdmin           Role = "adm"
	RoleSignature       Role = "assinatura"
	RoleRequester       Role = "solicitante"
	RoleAccounting      Role = "contabilidade"
	RolePayment         Role = "pagamento"
)

// AllRoles lists every assignable role slug, in pipeline order.
func AllRoles() []Role {
	return []Role{
		RoleInternalControl, RoleAdmin, RoleSignature,
		RoleRequester, RoleAccounting, RolePayment,
	}
}
