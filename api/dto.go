/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/workflow"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONFIG
// =============================================================================

// ConfigDTO carries the calculation inputs the frontend needs up front.
type ConfigDTO struct {
	UnitValue string   `json:"valor_upm"`
	FuelPrice string   `json:"preco_gasolina"`
	Capitals  []string `json:"capitais"`
}

// ParametersRequest updates the administrator-tunable parameters.
type ParametersRequest struct {
	UnitValue string `json:"valor_upm"`
	FuelPrice string `json:"preco_gasolina"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayDTO struct {
	Date string `json:"data"` // YYYY-MM-DD
	Name string `json:"descricao"`
}

type CreateHolidayRequest struct {
	Date string `json:"data"`
	Name string `json:"descricao"`
}

// =============================================================================
// PROFILE AND ROLES
// =============================================================================

type ProfileDTO struct {
	UserID   string   `json:"user_id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	CPF      string   `json:"cpf"`
	Position string   `json:"cargo"`
	Roles    []string `json:"roles"`
}

type SaveProfileRequest struct {
	CPF      string   `json:"cpf"`
	Position string   `json:"cargo"`
	Roles    []string `json:"roles"`
}

type RoleDTO struct {
	Slug  string `json:"slug"`
	Label string `json:"name"`
}

// =============================================================================
// CALCULATION PREVIEW
// =============================================================================

// AddressComponentDTO mirrors the structured geocoder output the frontend
// forwards with the destination.
type AddressComponentDTO struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}

type PreviewRequest struct {
	Departure     string                `json:"data_saida"`   // YYYY-MM-DD
	Return        string                `json:"data_retorno"` // YYYY-MM-DD
	Destination   string                `json:"destino"`
	Components    []AddressComponentDTO `json:"address_components,omitempty"`
	Transport     string                `json:"meio_transporte"`
	DiemType      string                `json:"tipo_diaria"`
	AdvanceTravel bool                  `json:"viagem_antecipada"`
}

type CategoryTotalDTO struct {
	Count    int    `json:"quantidade"`
	UnitsUPM string `json:"upm"`
	Total    string `json:"valor"`
}

type PreviewResponse struct {
	Region           string           `json:"regiao"`
	NumberOfDiems    int              `json:"numero_diarias"`
	PendingChoice    bool             `json:"escolha_pendente"`
	WithOvernight    CategoryTotalDTO `json:"com_pernoite"`
	WithoutOvernight CategoryTotalDTO `json:"sem_pernoite"`
	HalfDay          CategoryTotalDTO `json:"meia_diaria"`
	TotalDiemValue   string           `json:"valor_diarias"`
	DistanceKm       int64            `json:"distancia_km"`
	Reimbursement    string           `json:"valor_deslocamento"`
	GrandTotal       string           `json:"valor_total"`
	Degraded         bool             `json:"calculo_degradado"`

	DeadlineSufficient bool   `json:"prazo_suficiente"`
	RequiredDays       int    `json:"dias_uteis_exigidos"`
	AvailableDays      int    `json:"dias_uteis_disponiveis"`
	EarliestAllowed    string `json:"data_minima,omitempty"`

	// Display strings, pt-BR formatted.
	TotalFormatted string `json:"valor_total_formatado"`
}

// =============================================================================
// PROCESSES
// =============================================================================

type SubmitProcessRequest struct {
	Objective     string                `json:"objetivo"`
	Destination   string                `json:"destino"`
	Components    []AddressComponentDTO `json:"address_components,omitempty"`
	Departure     string                `json:"data_saida"`
	Return        string                `json:"data_retorno"`
	Transport     string                `json:"meio_transporte"`
	VehiclePlate  string                `json:"placa_veiculo"`
	AirTickets    bool                  `json:"passagens_aereas"`
	DiemType      string                `json:"tipo_diaria"`
	AdvanceTravel bool                  `json:"viagem_antecipada"`

	AdvanceJustification  string `json:"justificativa_antecipacao"`
	DeadlineJustification string `json:"justificativa_prazo"`

	RegistrationFeeRequested bool   `json:"solicita_inscricao"`
	RegistrationFee          string `json:"valor_inscricao"`
}

type ProcessDTO struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`

	RequesterID   string `json:"solicitante_id"`
	RequesterName string `json:"solicitante"`

	Objective    string `json:"objetivo"`
	Destination  string `json:"destino"`
	Region       string `json:"regiao"`
	Departure    string `json:"data_saida"`
	Return       string `json:"data_retorno"`
	Transport    string `json:"meio_transporte"`
	VehiclePlate string `json:"placa_veiculo,omitempty"`
	AirTickets   bool   `json:"passagens_aereas"`

	DiemType      string `json:"tipo_diaria"`
	AdvanceTravel bool   `json:"viagem_antecipada"`

	DistanceKm          int64  `json:"distancia_km"`
	TotalDiemValue      string `json:"valor_diarias"`
	TravelReimbursement string `json:"valor_deslocamento"`
	RegistrationFee     string `json:"valor_inscricao"`
	TotalToCommit       string `json:"valor_empenhar"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HistoryEntryDTO struct {
	From       string    `json:"status_anterior"`
	FromLabel  string    `json:"status_anterior_label,omitempty"`
	To         string    `json:"status_novo"`
	ToLabel    string    `json:"status_novo_label"`
	ActorID    string    `json:"responsavel_id"`
	Note       string    `json:"anotacao"`
	OccurredAt time.Time `json:"timestamp"`
}

type TransitionRequest struct {
	Target string `json:"status"`
	Note   string `json:"anotacao"`
}

type ActionsDTO struct {
	Actions []RoleDTO `json:"acoes"` // slug = status value, name = label
}

// =============================================================================
// MAPPERS
// =============================================================================

func processToDTO(p *workflow.Process) ProcessDTO {
	return ProcessDTO{
		ID:          p.ID,
		Status:      string(p.Status),
		StatusLabel: p.Status.Label(),

		RequesterID:   p.RequesterID,
		RequesterName: p.RequesterName,

		Objective:    p.Objective,
		Destination:  p.Destination,
		Region:       string(p.Region),
		Departure:    p.Departure.Format("2006-01-02"),
		Return:       p.Return.Format("2006-01-02"),
		Transport:    string(p.Transport),
		VehiclePlate: p.VehiclePlate,
		AirTickets:   p.AirTickets,

		DiemType:      string(p.DiemType),
		AdvanceTravel: p.AdvanceTravel,

		DistanceKm:          p.DistanceKm,
		TotalDiemValue:      p.TotalDiemValue.StringFixed(2),
		TravelReimbursement: p.TravelReimbursement.StringFixed(2),
		RegistrationFee:     p.RegistrationFee.StringFixed(2),
		TotalToCommit:       p.TotalToCommit.StringFixed(2),

		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func componentsFromDTO(in []AddressComponentDTO) []diaria.AddressComponent {
	if len(in) == 0 {
		return nil
	}
	out := make([]diaria.AddressComponent, len(in))
	for i, c := range in {
		out[i] = diaria.AddressComponent{LongName: c.LongName, Types: c.Types}
	}
	return out
}

func categoryToDTO(c diaria.CategoryTotal) CategoryTotalDTO {
	return CategoryTotalDTO{
		Count:    c.Count,
		UnitsUPM: c.UnitsUPM.String(),
		Total:    c.Total.StringFixed(2),
	}
}
