package response

import "github.com/threadworks/gatehouse/pkg/moderation"

// KindFlood marks a submission held back by flood control. The engine
// reports flood decisions as a plain boolean; the transport layer gives
// them a kind so all rejections share one response shape.
const KindFlood = "flood"

type Rejection struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Pattern string `json:"pattern,omitempty"`
	Field   string `json:"field,omitempty"`
	Links   int    `json:"links,omitempty"`
}

type VerdictResponse struct {
	Allowed   bool       `json:"allowed"`
	Rejection *Rejection `json:"rejection,omitempty"`
}

func NewVerdictResponse(result moderation.Result) VerdictResponse {
	if result.Allowed {
		return VerdictResponse{Allowed: true}
	}
	return VerdictResponse{
		Allowed: false,
		Rejection: &Rejection{
			Kind:    string(result.Kind),
			Message: result.Message,
			Pattern: result.Pattern,
			Field:   result.Field,
			Links:   result.Links,
		},
	}
}

func NewFloodVerdict(allowed bool, message string) VerdictResponse {
	if allowed {
		return VerdictResponse{Allowed: true}
	}
	return VerdictResponse{
		Allowed: false,
		Rejection: &Rejection{
			Kind:    KindFlood,
			Message: message,
		},
	}
}
