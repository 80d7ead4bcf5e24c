package moderation

// Kind identifies why a submission was rejected.
type Kind string

const (
	KindTooManyLinks    Kind = "too_many_links"
	KindWordMatch       Kind = "word_match"
	KindDisallowedMatch Kind = "disallowed_key_match"
)

// Result is the outcome of a single check. Callers that only need a
// boolean read Allowed; rejections always carry a Kind so the caller
// can render an appropriate message.
type Result struct {
	Allowed bool   `json:"allowed"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Field   string `json:"field,omitempty"`
	Links   int    `json:"links,omitempty"`
}

func Accepted() Result {
	return Result{Allowed: true}
}

// Messages holds the display text per rejection kind. The defaults are
// placeholders; deployments that localize rejection text override them
// through the engine options.
type Messages struct {
	TooManyLinks    string
	WordMatch       string
	DisallowedMatch string
}

func DefaultMessages() Messages {
	return Messages{
		TooManyLinks:    "your submission contains too many links and is awaiting approval",
		WordMatch:       "your submission matched a moderation rule and is awaiting approval",
		DisallowedMatch: "your submission contains content that is not allowed",
	}
}

func (m Messages) For(kind Kind) string {
	switch kind {
	case KindTooManyLinks:
		return m.TooManyLinks
	case KindWordMatch:
		return m.WordMatch
	case KindDisallowedMatch:
		return m.DisallowedMatch
	default:
		return ""
	}
}
