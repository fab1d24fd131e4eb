package entity

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Entidade: SponsorRecord
type SponsorRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Scope    Scope  `json:"scope"`
	Category string `json:"category"`

	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`

	Status          Status         `json:"status"`
	Notes           string         `json:"notes"`
	SponsorshipTier TierCode       `json:"sponsorship_tier"`
	EstimatedBudget string         `json:"estimated_budget"`
	InterestAreas   []InterestArea `json:"interest_areas"`
	ContactDate     time.Time      `json:"contact_date"`

	Conversations []ConversationEntry `json:"conversations"`
}

type ConversationEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
	Channel   Channel   `json:"channel"`
}

// Today devolve a data civil (meia-noite UTC) de t.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Clone faz cópia profunda; o cache nunca compartilha slices com quem chama.
func (r SponsorRecord) Clone() SponsorRecord {
	out := r
	if r.InterestAreas != nil {
		out.InterestAreas = append([]InterestArea(nil), r.InterestAreas...)
	}
	if r.Conversations != nil {
		out.Conversations = append([]ConversationEntry(nil), r.Conversations...)
	}
	return out
}

// LastConversationAt devolve o timestamp da última entrada, ou zero.
func (r SponsorRecord) LastConversationAt() time.Time {
	if len(r.Conversations) == 0 {
		return time.Time{}
	}
	return r.Conversations[len(r.Conversations)-1].Timestamp
}

// RecordFields devolve todos os campos do registro exceto o log de conversas,
// que só é alterado via AppendToArrayField. Campos vazios também são enviados
// para que o update sobrescreva o documento inteiro.
func (r SponsorRecord) RecordFields() map[string]any {
	interests := make([]any, 0, len(r.InterestAreas))
	for _, a := range r.InterestAreas {
		interests = append(interests, string(a))
	}
	contactDate := ""
	if !r.ContactDate.IsZero() {
		contactDate = r.ContactDate.UTC().Format(DateLayout)
	}
	return map[string]any{
		"name":            r.Name,
		"scope":           string(r.Scope),
		"category":        r.Category,
		"contactName":     r.ContactName,
		"email":           r.Email,
		"phone":           r.Phone,
		"location":        r.Location,
		"status":          string(r.Status),
		"notes":           r.Notes,
		"sponsorshipTier": string(r.SponsorshipTier),
		"estimatedBudget": r.EstimatedBudget,
		"interestAreas":   interests,
		"contactDate":     contactDate,
	}
}

// CreateFields inclui o log vazio, para que o campo exista desde o início.
func (r SponsorRecord) CreateFields() map[string]any {
	fields := r.RecordFields()
	fields[ConversationsField] = []any{}
	return fields
}

func (e ConversationEntry) Fields() map[string]any {
	return map[string]any{
		"timestamp": e.Timestamp.UTC().Format(time.RFC3339Nano),
		"content":   e.Content,
		"channel":   string(e.Channel),
	}
}

// SponsorFromDocument aceita tanto as chaves atuais quanto as do schema antigo
// em espanhol (nombre, zona, estado, conversaciones...).
func SponsorFromDocument(doc Document) SponsorRecord {
	f := doc.Fields
	rec := SponsorRecord{
		ID:              doc.ID,
		Name:            stringField(f, "name", "nombre"),
		Scope:           ParseScope(stringField(f, "scope", "zona", "tipo")),
		Category:        stringField(f, "category", "categoria"),
		ContactName:     stringField(f, "contactName", "contacto"),
		Email:           stringField(f, "email"),
		Phone:           stringField(f, "phone", "telefono"),
		Location:        stringField(f, "location", "poblacion", "direccion"),
		Status:          ParseStatus(stringField(f, "status", "estado")),
		Notes:           stringField(f, "notes", "notas"),
		SponsorshipTier: TierCode(stringField(f, "sponsorshipTier", "tipoPatrocinio")),
		EstimatedBudget: stringField(f, "estimatedBudget", "presupuestoEstimado"),
		ContactDate:     parseDate(stringField(f, "contactDate", "fechaContacto")),
	}

	for _, raw := range listField(f, "interestAreas", "interesadoEn") {
		if s, ok := raw.(string); ok {
			rec.InterestAreas = append(rec.InterestAreas, InterestArea(s))
		}
	}
	rec.InterestAreas = NormalizeInterests(rec.InterestAreas)

	// documentos antigos guardam o log em "conversaciones"; as appends novas vão
	// sempre para "conversations", então as duas listas se somam, antigas primeiro
	legacy := listField(f, LegacyConversationsField)
	current := listField(f, ConversationsField)
	entries := make([]any, 0, len(legacy)+len(current))
	entries = append(append(entries, legacy...), current...)
	for _, raw := range entries {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		rec.Conversations = append(rec.Conversations, ConversationEntry{
			Timestamp: parseTimestamp(m["timestamp"], m["fecha"]),
			Content:   stringField(m, "content", "contenido"),
			Channel:   ParseChannel(stringField(m, "channel", "tipo")),
		})
	}
	return rec
}

func stringField(f map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := f[k]; ok && v != nil {
			switch s := v.(type) {
			case string:
				return s
			}
		}
	}
	return ""
}

func listField(f map[string]any, keys ...string) []any {
	for _, k := range keys {
		switch v := f[k].(type) {
		case []any:
			return v
		case []string:
			out := make([]any, len(v))
			for i := range v {
				out[i] = v[i]
			}
			return out
		case []map[string]any:
			out := make([]any, len(v))
			for i := range v {
				out[i] = v[i]
			}
			return out
		}
	}
	return nil
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Today(t)
	}
	return time.Time{}
}

func parseTimestamp(values ...any) time.Time {
	for _, v := range values {
		switch ts := v.(type) {
		case string:
			if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
				return t.UTC()
			}
		case time.Time:
			return ts.UTC()
		}
	}
	return time.Time{}
}
