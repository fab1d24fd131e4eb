package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/patrocinios/internal/usecase"
)

func TestWorkbook_WritesBothSheets(t *testing.T) {
	sponsors := []usecase.SponsorOutput{
		{
			ID:            "abc",
			Name:          "Acme Brews",
			Scope:         "local",
			Category:      "Bebidas",
			Status:        "pending",
			TierLabel:     "unspecified",
			InterestAreas: []string{"beverages", "catering"},
			ContactDate:   "2024-03-01",
			Conversations: []usecase.ConversationOutput{
				{Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Content: "A", Channel: "email"},
				{Timestamp: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), Content: "B", Channel: "call"},
			},
		},
		{ID: "def", Name: "Beta", Scope: "national"},
	}

	raw, err := Workbook(sponsors)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SponsorsSheet, ConversationsSheet}, f.GetSheetList())

	rows, err := f.GetRows(SponsorsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Nombre", rows[0][1])
	assert.Equal(t, "Acme Brews", rows[1][1])
	assert.Equal(t, "beverages, catering", rows[1][11])
	assert.Equal(t, "2", rows[1][13])
	assert.Equal(t, "Beta", rows[2][1])

	convs, err := f.GetRows(ConversationsSheet)
	require.NoError(t, err)
	require.Len(t, convs, 3)
	assert.Equal(t, []string{"abc", "Acme Brews", "2024-03-01 10:00:00", "email", "A"}, convs[1])
	assert.Equal(t, "B", convs[2][4])
}

func TestWorkbook_Empty(t *testing.T) {
	raw, err := Workbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SponsorsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
