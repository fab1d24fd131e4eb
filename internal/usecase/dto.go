package usecase

import (
	"strings"
	"time"

	"github.com/xavierca1/patrocinios/internal/entity"
)

// SponsorInput é o formulário do patrocinador como chega da UI.
type SponsorInput struct {
	Name            string   `json:"name"`
	Scope           string   `json:"scope"`
	Category        string   `json:"category"`
	ContactName     string   `json:"contact_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Location        string   `json:"location"`
	Status          string   `json:"status"`
	Notes           string   `json:"notes"`
	SponsorshipTier string   `json:"sponsorship_tier"`
	EstimatedBudget string   `json:"estimated_budget"`
	InterestAreas   []string `json:"interest_areas"`
	ContactDate     string   `json:"contact_date"` // YYYY-MM-DD
}

// ToDraft converte o formulário. contact_date vazia fica vazia; fora do formato
// YYYY-MM-DD é erro de validação, para o commit não apagar a data gravada.
func (in SponsorInput) ToDraft(id string) (entity.SponsorRecord, error) {
	draft := entity.SponsorRecord{
		ID:              id,
		Name:            in.Name,
		Scope:           entity.Scope(in.Scope),
		Category:        in.Category,
		ContactName:     in.ContactName,
		Email:           in.Email,
		Phone:           in.Phone,
		Location:        in.Location,
		Status:          entity.Status(in.Status),
		Notes:           in.Notes,
		SponsorshipTier: entity.TierCode(strings.TrimSpace(in.SponsorshipTier)),
		EstimatedBudget: in.EstimatedBudget,
	}
	for _, a := range in.InterestAreas {
		draft.InterestAreas = append(draft.InterestAreas, entity.InterestArea(a))
	}
	if raw := strings.TrimSpace(in.ContactDate); raw != "" {
		t, err := time.Parse(entity.DateLayout, raw)
		if err != nil {
			return entity.SponsorRecord{}, validationFailed([]ValidationError{
				{"contact_date", "must be a date in YYYY-MM-DD format"},
			})
		}
		draft.ContactDate = t
	}
	return draft, nil
}

type ConversationInput struct {
	Content string `json:"content"`
	Channel string `json:"channel"`
}

type ConversationOutput struct {
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
	Channel   string    `json:"channel"`
}

type SponsorOutput struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Scope           string               `json:"scope"`
	Category        string               `json:"category"`
	ContactName     string               `json:"contact_name"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone"`
	Location        string               `json:"location"`
	Status          string               `json:"status"`
	Notes           string               `json:"notes"`
	SponsorshipTier string               `json:"sponsorship_tier"`
	TierLabel       string               `json:"tier_label"`
	EstimatedBudget string               `json:"estimated_budget"`
	InterestAreas   []string             `json:"interest_areas"`
	ContactDate     string               `json:"contact_date"`
	Conversations   []ConversationOutput `json:"conversations"`
	Editing         bool                 `json:"editing"`
}

func NewSponsorOutput(rec entity.SponsorRecord, editingID string) SponsorOutput {
	out := SponsorOutput{
		ID:              rec.ID,
		Name:            rec.Name,
		Scope:           string(rec.Scope),
		Category:        rec.Category,
		ContactName:     rec.ContactName,
		Email:           rec.Email,
		Phone:           rec.Phone,
		Location:        rec.Location,
		Status:          string(rec.Status),
		Notes:           rec.Notes,
		SponsorshipTier: string(rec.SponsorshipTier),
		TierLabel:       entity.TierLabel(rec.SponsorshipTier),
		EstimatedBudget: rec.EstimatedBudget,
		InterestAreas:   make([]string, 0, len(rec.InterestAreas)),
		Conversations:   make([]ConversationOutput, 0, len(rec.Conversations)),
		Editing:         rec.ID != "" && rec.ID == editingID,
	}
	if !rec.ContactDate.IsZero() {
		out.ContactDate = rec.ContactDate.Format(entity.DateLayout)
	}
	for _, a := range rec.InterestAreas {
		out.InterestAreas = append(out.InterestAreas, string(a))
	}
	for _, c := range rec.Conversations {
		out.Conversations = append(out.Conversations, ConversationOutput{
			Timestamp: c.Timestamp,
			Content:   c.Content,
			Channel:   string(c.Channel),
		})
	}
	return out
}
