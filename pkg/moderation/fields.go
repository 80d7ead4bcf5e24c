package moderation

// Names of the submission fields scanned by the keyword checks.
const (
	FieldAuthor  = "author"
	FieldEmail   = "email"
	FieldURL     = "url"
	FieldUserIP  = "user_ip"
	FieldUserUA  = "user_ua"
	FieldTitle   = "title"
	FieldContent = "content"
)

// FieldOrder fixes the order in which fields are tested against a
// pattern. The first field matching a pattern determines the reported
// match.
var FieldOrder = []string{
	FieldAuthor,
	FieldEmail,
	FieldURL,
	FieldUserIP,
	FieldUserUA,
	FieldTitle,
	FieldContent,
}

// Fields is the flat bag of named submission text built fresh for each
// check and discarded afterwards. Identity fields are absent when the
// actor is anonymous or the member lookup failed.
type Fields map[string]string
