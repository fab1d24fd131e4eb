package entity

import "strings"

// Os enums são "abertos": valores desconhecidos são preservados como vieram do
// banco, para tolerar documentos gravados por versões antigas do schema.

type Scope string

const (
	ScopeLocal         Scope = "local"
	ScopeNational      Scope = "national"
	ScopeInternational Scope = "international"
)

var legacyScopes = map[string]Scope{
	"local":         ScopeLocal,
	"national":      ScopeNational,
	"nacional":      ScopeNational,
	"international": ScopeInternational,
	"internacional": ScopeInternational,
}

func ParseScope(raw string) Scope {
	if s, ok := legacyScopes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return Scope(raw)
}

func (s Scope) Known() bool {
	switch s {
	case ScopeLocal, ScopeNational, ScopeInternational:
		return true
	}
	return false
}

type Status string

const (
	StatusPending     Status = "pending"
	StatusContacted   Status = "contacted"
	StatusNegotiating Status = "negotiating"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
)

// AllStatuses na ordem em que a UI apresenta.
var AllStatuses = []Status{StatusPending, StatusContacted, StatusNegotiating, StatusAccepted, StatusRejected}

var legacyStatuses = map[string]Status{
	"pending":     StatusPending,
	"pendiente":   StatusPending,
	"contacted":   StatusContacted,
	"contactado":  StatusContacted,
	"negotiating": StatusNegotiating,
	"negociando":  StatusNegotiating,
	"accepted":    StatusAccepted,
	"aceptado":    StatusAccepted,
	"rejected":    StatusRejected,
	"rechazado":   StatusRejected,
}

func ParseStatus(raw string) Status {
	if s, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return Status(raw)
}

func (s Status) Known() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelCall    Channel = "call"
	ChannelMeeting Channel = "meeting"
	ChannelOther   Channel = "other"

	DefaultChannel = ChannelEmail
)

var legacyChannels = map[string]Channel{
	"email":   ChannelEmail,
	"call":    ChannelCall,
	"llamada": ChannelCall,
	"meeting": ChannelMeeting,
	"reunion": ChannelMeeting,
	"reunión": ChannelMeeting,
	"other":   ChannelOther,
	"otro":    ChannelOther,
}

// ParseChannel devolve DefaultChannel para entrada vazia.
func ParseChannel(raw string) Channel {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return DefaultChannel
	}
	if c, ok := legacyChannels[trimmed]; ok {
		return c
	}
	return Channel(raw)
}

func (c Channel) Known() bool {
	switch c {
	case ChannelEmail, ChannelCall, ChannelMeeting, ChannelOther:
		return true
	}
	return false
}

type InterestArea string

const (
	InterestMerchandising InterestArea = "merchandising"
	InterestBeverages     InterestArea = "beverages"
	InterestEquipment     InterestArea = "equipment"
	InterestTransport     InterestArea = "transport"
	InterestLodging       InterestArea = "lodging"
	InterestCatering      InterestArea = "catering"
	InterestPromotion     InterestArea = "promotion"
)

var legacyInterests = map[string]InterestArea{
	"merchandising": InterestMerchandising,
	"beverages":     InterestBeverages,
	"bebidas":       InterestBeverages,
	"equipment":     InterestEquipment,
	"equipo":        InterestEquipment,
	"transport":     InterestTransport,
	"transporte":    InterestTransport,
	"lodging":       InterestLodging,
	"alojamiento":   InterestLodging,
	"catering":      InterestCatering,
	"promotion":     InterestPromotion,
	"promoción":     InterestPromotion,
	"promocion":     InterestPromotion,
}

func ParseInterestArea(raw string) InterestArea {
	if a, ok := legacyInterests[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return a
	}
	return InterestArea(raw)
}

func (a InterestArea) Known() bool {
	switch a {
	case InterestMerchandising, InterestBeverages, InterestEquipment, InterestTransport,
		InterestLodging, InterestCatering, InterestPromotion:
		return true
	}
	return false
}

// NormalizeInterests remove vazios e duplicados mantendo a primeira ocorrência.
func NormalizeInterests(in []InterestArea) []InterestArea {
	out := make([]InterestArea, 0, len(in))
	seen := make(map[InterestArea]bool, len(in))
	for _, raw := range in {
		if strings.TrimSpace(string(raw)) == "" {
			continue
		}
		a := ParseInterestArea(string(raw))
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
