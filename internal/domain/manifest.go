package domain

// Manifest is one grade's activity catalog, loaded from data/<grade>.json.
// Manifests are read-only after load: nothing in the system mutates them or
// writes them back.
type Manifest struct {
	Grade  GradeID `json:"grade"`
	Levels []Level `json:"levels"`
}

// Level is one teaching level inside a grade: an ordered set of activities
// plus a "learn more" panel for grown-ups.
type Level struct {
	ID         string     `json:"id"`
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	Goal       string     `json:"goal"`
	Activities []Activity `json:"activities"`
	LearnMore  LearnMore  `json:"learnMore"`
}

// Activity is a single mini-game entry on a level's Activities tab.
type Activity struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LearnMoreKind discriminates the per-grade learn-more panel shapes.
type LearnMoreKind string

const (
	// LearnMoreResources is the Pre-K shape: a flat list of caregiver resources.
	LearnMoreResources LearnMoreKind = "resources"
	// LearnMoreCards is the Grade 2 shape: field-guide cards with
	// markdown-flavored content.
	LearnMoreCards LearnMoreKind = "cards"
	// LearnMoreTranslated is the fixed four-card shape used by the remaining
	// grades; all copy comes from the translation bundle.
	LearnMoreTranslated LearnMoreKind = "translated"
)

// LearnMore is the grade-specific "Learn More" payload. Exactly one of the
// shape fields is populated; Kind() reports which.
type LearnMore struct {
	Resources []Resource `json:"resources,omitempty"`
	Cards     []Card     `json:"cards,omitempty"`
}

// Kind reports the panel shape. An empty payload is the translated shape:
// those grades carry no learn-more data in the manifest at all.
func (lm LearnMore) Kind() LearnMoreKind {
	switch {
	case len(lm.Resources) > 0:
		return LearnMoreResources
	case len(lm.Cards) > 0:
		return LearnMoreCards
	default:
		return LearnMoreTranslated
	}
}

// Resource is one caregiver resource on a Pre-K learn-more panel.
// ID may be empty in the data; the content layer derives a stable one from
// the title in that case.
type Resource struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// CardVariant selects the markdown-lite parsing variant for a card.
type CardVariant string

const (
	CardFieldGuide CardVariant = "field_guide"
	CardTryAtHome  CardVariant = "try_at_home"
	CardVideos     CardVariant = "videos"
)

// Card is one field-guide card on a Grade 2 learn-more panel. Content is
// markdown-lite text.
type Card struct {
	Title   string      `json:"title"`
	Variant CardVariant `json:"variant,omitempty"`
	Content string      `json:"content"`
}

// TranslatedCardCount is the number of cards on a translated learn-more
// panel. Copy is looked up per card index under
// section.levels.<levelID>.learnmore.card<N>.{title,text}.
const TranslatedCardCount = 4
