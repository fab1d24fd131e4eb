package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums_AcceptLegacyValues(t *testing.T) {
	assert.Equal(t, ScopeNational, ParseScope("Nacional"))
	assert.Equal(t, ScopeInternational, ParseScope(" internacional "))
	assert.Equal(t, Scope("regional"), ParseScope("regional"))

	assert.Equal(t, StatusRejected, ParseStatus("rechazado"))
	assert.Equal(t, StatusContacted, ParseStatus("CONTACTED"))
	assert.False(t, Status("archivado").Known())

	assert.Equal(t, DefaultChannel, ParseChannel(""))
	assert.Equal(t, ChannelCall, ParseChannel("Llamada"))
	assert.Equal(t, ChannelMeeting, ParseChannel("reunión"))
	assert.Equal(t, Channel("whatsapp"), ParseChannel("whatsapp"))
	assert.False(t, Channel("whatsapp").Known())
}

func TestNormalizeInterests(t *testing.T) {
	got := NormalizeInterests([]InterestArea{"equipo", " ", "equipment", "Bebidas", "custom"})

	assert.Equal(t, []InterestArea{InterestEquipment, InterestBeverages, "custom"}, got)
	assert.NotNil(t, NormalizeInterests(nil))
}

func TestTierLabel(t *testing.T) {
	tests := []struct {
		code TierCode
		want string
	}{
		{TierGold, "Patrocinador Oro (100€)"},
		{TierSilver, "Patrocinador Plata (50€)"},
		{"patrocinador_plata", "Patrocinador Plata (50€)"},
		{"", UnspecifiedTierLabel},
		{"bronze", UnspecifiedTierLabel},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, TierLabel(tt.code))
		})
	}
}

func TestLookupTier_LegacyCode(t *testing.T) {
	tier, ok := LookupTier("patrocinador_oro")

	require.True(t, ok)
	assert.Equal(t, TierGold, tier.Code)
	assert.Equal(t, 10000, tier.PriceCents)
}

func TestToday_TruncatesToUTCMidnight(t *testing.T) {
	madrid := time.FixedZone("CET", 3600)
	in := time.Date(2024, 3, 2, 0, 30, 0, 0, madrid)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Today(in))
}

// TestRecordFields_ExcludesConversations - o update nunca toca o log
func TestRecordFields_ExcludesConversations(t *testing.T) {
	rec := SponsorRecord{
		Name:          "Acme",
		InterestAreas: []InterestArea{InterestCatering},
		ContactDate:   time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
		Conversations: []ConversationEntry{{Content: "oi"}},
	}

	fields := rec.RecordFields()

	assert.NotContains(t, fields, ConversationsField)
	assert.Equal(t, "2024-01-09", fields["contactDate"])
	assert.Equal(t, []any{"catering"}, fields["interestAreas"])
	assert.Contains(t, fields, "notes")

	create := rec.CreateFields()
	assert.Equal(t, []any{}, create[ConversationsField])
}

func TestClone_DoesNotShareSlices(t *testing.T) {
	rec := SponsorRecord{
		InterestAreas: []InterestArea{InterestBeverages},
		Conversations: []ConversationEntry{{Content: "a"}},
	}

	c := rec.Clone()
	c.InterestAreas[0] = InterestLodging
	c.Conversations[0].Content = "b"

	assert.Equal(t, InterestBeverages, rec.InterestAreas[0])
	assert.Equal(t, "a", rec.Conversations[0].Content)
}

func TestSponsorFromDocument_CurrentKeys(t *testing.T) {
	doc := Document{ID: "abc", Fields: map[string]any{
		"name":            "Acme",
		"scope":           "national",
		"category":        "Cervecera",
		"status":          "contacted",
		"sponsorshipTier": "gold",
		"interestAreas":   []any{"beverages"},
		"contactDate":     "2024-02-01",
		ConversationsField: []any{
			map[string]any{"timestamp": "2024-02-01T10:00:00.5Z", "content": "A", "channel": "call"},
			map[string]any{"timestamp": "2024-02-01T11:00:00Z", "content": "B", "channel": ""},
			"lixo",
		},
	}}

	rec := SponsorFromDocument(doc)

	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, ScopeNational, rec.Scope)
	assert.Equal(t, StatusContacted, rec.Status)
	assert.Equal(t, TierGold, rec.SponsorshipTier)
	require.Len(t, rec.Conversations, 2)
	assert.Equal(t, time.Date(2024, 2, 1, 10, 0, 0, 500000000, time.UTC), rec.Conversations[0].Timestamp)
	assert.Equal(t, ChannelCall, rec.Conversations[0].Channel)
	assert.Equal(t, DefaultChannel, rec.Conversations[1].Channel)
	assert.Equal(t, time.Date(2024, 2, 1, 11, 0, 0, 0, time.UTC), rec.LastConversationAt())
}

func TestSponsorFromDocument_MissingFields(t *testing.T) {
	rec := SponsorFromDocument(Document{ID: "x", Fields: map[string]any{"name": 42}})

	assert.Empty(t, rec.Name)
	assert.True(t, rec.ContactDate.IsZero())
	assert.Empty(t, rec.InterestAreas)
	assert.Nil(t, rec.Conversations)
	assert.True(t, rec.LastConversationAt().IsZero())
}

func TestConversationEntry_Fields(t *testing.T) {
	e := ConversationEntry{
		Timestamp: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Content:   "Llamada inicial",
		Channel:   ChannelEmail,
	}

	assert.Equal(t, map[string]any{
		"timestamp": "2024-05-01T09:00:00Z",
		"content":   "Llamada inicial",
		"channel":   "email",
	}, e.Fields())
}

// TestSponsorFromDocument_MergesLegacyLog - documento com as duas listas
// devolve as entradas antigas primeiro
func TestSponsorFromDocument_MergesLegacyLog(t *testing.T) {
	doc := Document{ID: "abc", Fields: map[string]any{
		"nombre": "Bar Pepe",
		LegacyConversationsField: []any{
			map[string]any{"fecha": "2023-11-05T09:00:00Z", "contenido": "Visita", "tipo": "reunion"},
		},
		ConversationsField: []any{
			map[string]any{"timestamp": "2024-03-01T10:30:00Z", "content": "Segunda llamada", "channel": "call"},
		},
	}}

	rec := SponsorFromDocument(doc)

	require.Len(t, rec.Conversations, 2)
	assert.Equal(t, "Visita", rec.Conversations[0].Content)
	assert.Equal(t, ChannelMeeting, rec.Conversations[0].Channel)
	assert.Equal(t, "Segunda llamada", rec.Conversations[1].Content)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), rec.LastConversationAt())
}
