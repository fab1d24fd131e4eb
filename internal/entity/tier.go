package entity

import "fmt"

// TierCode referencia um nível da tabela de preços. Códigos desconhecidos são
// gravados como vieram e exibidos como "unspecified".
type TierCode string

const (
	TierGold   TierCode = "gold"
	TierSilver TierCode = "silver"

	UnspecifiedTierLabel = "unspecified"
)

type Tier struct {
	Code       TierCode `json:"code"`
	Name       string   `json:"name"`
	PriceCents int      `json:"price_cents"`
	Currency   string   `json:"currency"`
}

// PriceList é fixa; não existe cobrança, o preço é só referência da negociação.
var PriceList = []Tier{
	{Code: TierGold, Name: "Patrocinador Oro", PriceCents: 10000, Currency: "EUR"},
	{Code: TierSilver, Name: "Patrocinador Plata", PriceCents: 5000, Currency: "EUR"},
}

var legacyTierCodes = map[TierCode]TierCode{
	"patrocinador_oro":   TierGold,
	"patrocinador_plata": TierSilver,
}

// LookupTier resolve códigos atuais e os do schema antigo.
func LookupTier(code TierCode) (Tier, bool) {
	if alias, ok := legacyTierCodes[code]; ok {
		code = alias
	}
	for _, t := range PriceList {
		if t.Code == code {
			return t, true
		}
	}
	return Tier{}, false
}

// TierLabel devolve o texto exibido para o código, nunca erro.
func TierLabel(code TierCode) string {
	t, ok := LookupTier(code)
	if !ok {
		return UnspecifiedTierLabel
	}
	return fmt.Sprintf("%s (%d€)", t.Name, t.PriceCents/100)
}
