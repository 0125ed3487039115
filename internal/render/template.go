package render

import (
	"html/template"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// pageData is the root of the grade page template.
type pageData struct {
	Grade   string
	Title   string
	Tagline string
	Levels  []levelData
}

type levelData struct {
	ID              string
	Number          int
	Title           string
	Goal            string
	ActivitiesLabel string
	LearnMoreLabel  string
	Activities      []activityData
	LearnMore       learnMoreData
}

type activityData struct {
	ID          string
	Icon        string
	Path        string
	Title       string
	Description string
}

type learnMoreData struct {
	Kind      domain.LearnMoreKind
	Resources []resourceData
	Cards     []cardData
}

type resourceData struct {
	ID          string
	Icon        string
	Title       string
	Description string
	URL         string
}

// cardData carries pre-rendered card markup. Body comes from the markdown
// renderer (or an escaped translated string) and bypasses template escaping.
type cardData struct {
	Title string
	Body  template.HTML
}

// pageTemplate emits one section per level with a two-tab group. Exactly one
// tab button and one panel carry the active class per level, and a fresh
// render always activates the first (Activities) pair.
const pageTemplate = `<div class="grade-page" data-grade="{{.Grade}}">
{{- if .Title}}
<header class="grade-header">
<h1>{{.Title}}</h1>
{{- if .Tagline}}
<p class="grade-tagline">{{.Tagline}}</p>
{{- end}}
</header>
{{- end}}
{{- range .Levels}}
<section class="level-section" id="level-{{.ID}}">
<div class="level-header">
<span class="level-number">{{.Number}}</span>
<h2 class="level-title">{{.Title}}</h2>
<p class="level-goal">{{.Goal}}</p>
</div>
<div class="tab-group" data-level="{{.ID}}">
<div class="tab-buttons" role="tablist">
<button class="tab-button active" role="tab" data-tab="activities">{{.ActivitiesLabel}}</button>
<button class="tab-button" role="tab" data-tab="learn-more">{{.LearnMoreLabel}}</button>
</div>
<div class="tab-panel active" role="tabpanel" data-panel="activities">
<div class="activity-grid">
{{- range .Activities}}
<a class="activity-card" href="{{.Path}}" data-activity="{{.ID}}">
<span class="activity-icon">{{.Icon}}</span>
<span class="activity-title">{{.Title}}</span>
<span class="activity-desc">{{.Description}}</span>
</a>
{{- end}}
</div>
</div>
<div class="tab-panel" role="tabpanel" data-panel="learn-more">
{{- if .LearnMore.Resources}}
<div class="resource-list">
{{- range .LearnMore.Resources}}
<div class="resource-card" data-resource="{{.ID}}">
{{- if .Icon}}
<span class="resource-icon">{{.Icon}}</span>
{{- end}}
<span class="resource-title">{{.Title}}</span>
<span class="resource-desc">{{.Description}}</span>
{{- if .URL}}
<a class="resource-link" href="{{.URL}}" rel="noopener">→</a>
{{- end}}
</div>
{{- end}}
</div>
{{- else}}
<div class="learn-more-cards">
{{- range .LearnMore.Cards}}
<div class="learn-more-card">
<h3 class="card-title">{{.Title}}</h3>
<div class="card-body">{{.Body}}</div>
</div>
{{- end}}
</div>
{{- end}}
</div>
</div>
</section>
{{- end}}
</div>
`
