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

NUMBERS:
  Quantities and money travel as JSON numbers rendered from decimals.
  The books' presentation precision is two decimal digits; rounding
  happens in the engine, not here.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/panchamrit/milkbook/dairy"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// FarmerDTO represents a farmer in API responses.
type FarmerDTO struct {
	ID             string  `json:"id"`
	FarmerNo       int     `json:"farmerNo"`
	Name           string  `json:"name"`
	FixedRate      float64 `json:"fixedRate"`
	AdvanceBalance float64 `json:"advanceBalance"`
	CreatedAt      string  `json:"createdAt"`
}

// SaveFarmerRequest creates or updates a farmer. FarmerNo 0 on create asks
// the server to allocate the next number.
type SaveFarmerRequest struct {
	FarmerNo  int     `json:"farmerNo"`
	Name      string  `json:"name"`
	FixedRate float64 `json:"fixedRate"`
}

// NextFarmerNoDTO carries the advisory next farmer number.
type NextFarmerNoDTO struct {
	NextFarmerNo int `json:"nextFarmerNo"`
}

// LogDTO represents one shift observation.
type LogDTO struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	FarmerID string  `json:"farmerId"`
	FarmerNo int     `json:"farmerNo"`
	Shift    string  `json:"shift"`
	Milk     float64 `json:"milk"`
	Fat      float64 `json:"fat"`
}

// SaveLogRequest upserts one shift observation.
type SaveLogRequest struct {
	Date     string  `json:"date"`
	FarmerID string  `json:"farmerId"`
	Shift    string  `json:"shift"`
	Milk     float64 `json:"milk"`
	Fat      float64 `json:"fat"`
}

// AdvanceDTO represents one cash advance.
type AdvanceDTO struct {
	ID       string  `json:"id"`
	FarmerID string  `json:"farmerId"`
	FarmerNo int     `json:"farmerNo"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Remarks  string  `json:"remarks"`
}

// CreateAdvanceRequest records a new advance. Date defaults to today.
type CreateAdvanceRequest struct {
	FarmerID string  `json:"farmerId"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Remarks  string  `json:"remarks"`
}

// AdvanceResponse wraps a stored advance with the reconciled balance.
type AdvanceResponse struct {
	Advance    AdvanceDTO `json:"advance"`
	NewBalance float64    `json:"newBalance"`
}

// EntryDTO is one dated statement row.
type EntryDTO struct {
	Date          string  `json:"date"`
	MorningMilk   float64 `json:"morningMilk"`
	MorningFat    float64 `json:"morningFat"`
	EveningMilk   float64 `json:"eveningMilk"`
	EveningFat    float64 `json:"eveningFat"`
	TotalFatUnits float64 `json:"totalFatUnits"`
	Amount        float64 `json:"amount"`
	Remarks       string  `json:"remarks,omitempty"`
}

// StatementDTO is a per-farmer statement over the requested range.
type StatementDTO struct {
	Farmer         FarmerDTO  `json:"farmer"`
	Entries        []EntryDTO `json:"entries"`
	TotalFatUnits  float64    `json:"totalFatUnits"`
	TotalAmount    float64    `json:"totalAmount"`
	PendingAdvance float64    `json:"pendingAdvance"`
}

// StatementsResponse wraps statements with the period's grand total.
type StatementsResponse struct {
	Start      string         `json:"start"`
	End        string         `json:"end"`
	Statements []StatementDTO `json:"statements"`
	GrandTotal float64        `json:"grandTotal"`
}

// MonthDTO is one BS month label pair.
type MonthDTO struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	NameNepali string `json:"nameNepali"`
}

// CalendarDTO carries the month table and the current BS date.
type CalendarDTO struct {
	Today  string     `json:"today"`
	Months []MonthDTO `json:"months"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toFarmerDTO(f dairy.Farmer) FarmerDTO {
	return FarmerDTO{
		ID:             string(f.ID),
		FarmerNo:       f.FarmerNo,
		Name:           f.Name,
		FixedRate:      f.FixedRate.InexactFloat64(),
		AdvanceBalance: f.AdvanceBalance.InexactFloat64(),
		CreatedAt:      f.CreatedAt,
	}
}

func toLogDTO(l dairy.DailyLog) LogDTO {
	return LogDTO{
		ID:       string(l.ID),
		Date:     l.Date,
		FarmerID: string(l.FarmerID),
		FarmerNo: l.FarmerNo,
		Shift:    string(l.Shift),
		Milk:     l.Milk.InexactFloat64(),
		Fat:      l.Fat.InexactFloat64(),
	}
}

func toAdvanceDTO(a dairy.Advance) AdvanceDTO {
	return AdvanceDTO{
		ID:       string(a.ID),
		FarmerID: string(a.FarmerID),
		FarmerNo: a.FarmerNo,
		Date:     a.Date,
		Amount:   a.Amount.InexactFloat64(),
		Remarks:  a.Remarks,
	}
}

func toStatementDTO(s dairy.FarmerStatement) StatementDTO {
	entries := make([]EntryDTO, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = EntryDTO{
			Date:          e.Date,
			MorningMilk:   e.MorningMilk.InexactFloat64(),
			MorningFat:    e.MorningFat.InexactFloat64(),
			EveningMilk:   e.EveningMilk.InexactFloat64(),
			EveningFat:    e.EveningFat.InexactFloat64(),
			TotalFatUnits: e.TotalFatUnits.InexactFloat64(),
			Amount:        e.Amount.InexactFloat64(),
			Remarks:       e.Remarks,
		}
	}
	return StatementDTO{
		Farmer:         toFarmerDTO(s.Farmer),
		Entries:        entries,
		TotalFatUnits:  s.TotalFatUnits.InexactFloat64(),
		TotalAmount:    s.TotalAmount.InexactFloat64(),
		PendingAdvance: s.PendingAdvance.InexactFloat64(),
	}
}
