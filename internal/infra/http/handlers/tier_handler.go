package handlers

import (
	"net/http"

	"github.com/xavierca1/patrocinios/internal/entity"
)

type TierOutput struct {
	entity.Tier
	Label string `json:"label"`
}

// Tiers (GET /tiers) devolve a tabela de preços fixa.
func Tiers(w http.ResponseWriter, r *http.Request) {
	out := make([]TierOutput, 0, len(entity.PriceList))
	for _, t := range entity.PriceList {
		out = append(out, TierOutput{Tier: t, Label: entity.TierLabel(t.Code)})
	}
	writeJSON(w, http.StatusOK, out)
}
