package pipeline

// AliasTable maps canonical field names to the raw key spellings webforms
// actually send: English variants, Hebrew labels, and the bracketed keys
// Elementor produces. Immutable after construction; inject it into the
// Normalizer rather than reading process-wide state.
type AliasTable struct {
	aliases map[string][]string

	// Elementor renders unlabeled fields as a fixed phrase followed by the
	// field id, e.g. "new field email". Compared case-insensitively.
	noLabelPrefix string
}

// Canonical field names. Attribution keys double as their own storage columns.
const (
	FieldFullName    = "full_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldNotes       = "notes"
	FieldFormID      = "form_id"
	FieldFormName    = "form_name"
	FieldLandingPage = "landing_page"
	FieldKeyword     = "keyword"
)

// DefaultAliases returns the table matching the production webforms: Hebrew
// and English labels observed on Elementor, Contact Form 7 and raw fetch
// submissions. Order within a list is priority order.
func DefaultAliases() *AliasTable {
	return &AliasTable{
		noLabelPrefix: "new field ",
		aliases: map[string][]string{
			FieldFullName: {
				"name", "fullname", "full name", "your-name", "first_name",
				"שם מלא", "שם", "שם פרטי", "שם ושם משפחה",
			},
			FieldEmail: {
				"mail", "e-mail", "email_address", "your-email",
				"אימייל", "מייל", "דוא\"ל", "דואר אלקטרוני", "כתובת מייל",
			},
			FieldPhone: {
				"tel", "telephone", "mobile", "phone_number", "your-phone", "cell",
				"טלפון", "נייד", "מספר טלפון", "טלפון נייד",
			},
			FieldNotes: {
				"message", "notes", "msg", "comments", "your-message", "description",
				"הודעה", "תוכן", "הערות", "פרטים",
			},
			FieldFormID: {
				"formid", "form-id",
			},
			FieldFormName: {
				"form", "formname", "form-name",
				"שם טופס",
			},
			FieldLandingPage: {
				"page_url", "pageurl", "lp", "url", "landing", "page", "current_url",
			},
			FieldKeyword: {
				"search_term", "query", "q",
			},
		},
	}
}

// For returns the alias list for a canonical name, in priority order.
// Unknown canonicals have no aliases; they still resolve by exact key.
func (t *AliasTable) For(canonical string) []string {
	return t.aliases[canonical]
}

// NoLabelPrefix returns the Elementor unlabeled-field prefix phrase.
func (t *AliasTable) NoLabelPrefix() string {
	return t.noLabelPrefix
}
