// Package render builds grade page markup from a manifest plus resolved
// translations. Pages are cached per (grade, language); a catalog reload
// drops the affected language's entries so the next request re-renders.
package render

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"

	"github.com/meadowmath/meadowmath-backend/internal/content"
	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/i18n"
	"github.com/meadowmath/meadowmath-backend/internal/markdown"
)

// manifestSource is the slice of the content library the renderer needs.
type manifestSource interface {
	Manifest(ctx context.Context, grade domain.GradeID) (*domain.Manifest, error)
}

// Renderer turns one grade's manifest into a full page fragment.
type Renderer struct {
	lib  manifestSource
	cat  *i18n.Catalog
	log  *slog.Logger
	tmpl *template.Template

	mu    sync.Mutex
	cache map[cacheKey]string
}

type cacheKey struct {
	grade domain.GradeID
	lang  domain.Language
}

// New creates a renderer and subscribes it to catalog reloads for cache
// invalidation.
func New(lib manifestSource, cat *i18n.Catalog, log *slog.Logger) (*Renderer, error) {
	tmpl, err := template.New("grade-page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	r := &Renderer{
		lib:   lib,
		cat:   cat,
		log:   log.With("service", "render"),
		tmpl:  tmpl,
		cache: make(map[cacheKey]string),
	}
	cat.Subscribe(r.invalidate)
	return r, nil
}

func (r *Renderer) invalidate(lang domain.Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.cache {
		if key.lang == lang {
			delete(r.cache, key)
		}
	}
}

// Page renders the grade page for one language. The manifest is loaded once
// per request chain (the library caches it); a load failure is returned to
// the caller, which serves the static error block instead.
func (r *Renderer) Page(ctx context.Context, grade domain.GradeID, lang domain.Language) (string, error) {
	key := cacheKey{grade: grade, lang: lang}

	r.mu.Lock()
	if page, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return page, nil
	}
	r.mu.Unlock()

	manifest, err := r.lib.Manifest(ctx, grade)
	if err != nil {
		return "", fmt.Errorf("manifest for %s: %w", grade, err)
	}

	loc := r.cat.Localizer(lang, string(grade))
	data := r.buildPage(manifest, loc)

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s page: %w", grade, err)
	}
	page := sb.String()

	r.mu.Lock()
	r.cache[key] = page
	r.mu.Unlock()

	r.log.InfoContext(ctx, "page rendered",
		slog.String("grade", string(grade)),
		slog.String("lang", string(lang)),
	)
	return page, nil
}

// ErrorBlock is the fixed user-facing block served when the manifest cannot
// be loaded. Non-technical on purpose; diagnostics stay in the logs.
func (r *Renderer) ErrorBlock(lang domain.Language) string {
	loc := r.cat.Localizer(lang, "")
	msg := resolveOr(loc, "errors.loadFailed", "Oops! Something went wrong. Please try again in a moment.")
	return `<div class="load-error"><span class="load-error-icon">🐞</span><p>` +
		template.HTMLEscapeString(msg) + `</p></div>`
}

// resolveOr translates key, falling back to the manifest-supplied value when
// the key is untranslated in both the active and fallback language (T echoes
// the key in that case).
func resolveOr(loc *i18n.Localizer, key, fallback string) string {
	if s := loc.T(key); s != key {
		return s
	}
	return fallback
}

func (r *Renderer) buildPage(m *domain.Manifest, loc *i18n.Localizer) pageData {
	page := pageData{
		Grade:   string(m.Grade),
		Title:   resolveOr(loc, "section.page.title", ""),
		Tagline: resolveOr(loc, "section.page.tagline", ""),
	}

	for _, lvl := range m.Levels {
		prefix := "section.levels." + lvl.ID
		ld := levelData{
			ID:              lvl.ID,
			Number:          lvl.Number,
			Title:           resolveOr(loc, prefix+".title", lvl.Title),
			Goal:            resolveOr(loc, prefix+".goal", lvl.Goal),
			ActivitiesLabel: resolveOr(loc, "tabs.activities", "Activities"),
			LearnMoreLabel:  resolveOr(loc, "tabs.learnMore", "Learn More"),
		}

		for _, act := range lvl.Activities {
			actPrefix := "section.activities." + act.ID
			ld.Activities = append(ld.Activities, activityData{
				ID:          act.ID,
				Icon:        act.Icon,
				Path:        act.Path,
				Title:       resolveOr(loc, actPrefix+".title", act.Title),
				Description: resolveOr(loc, actPrefix+".description", act.Description),
			})
		}

		ld.LearnMore = r.buildLearnMore(lvl, loc)
		page.Levels = append(page.Levels, ld)
	}
	return page
}

func (r *Renderer) buildLearnMore(lvl domain.Level, loc *i18n.Localizer) learnMoreData {
	lm := learnMoreData{Kind: lvl.LearnMore.Kind()}

	switch lm.Kind {
	case domain.LearnMoreResources:
		for _, res := range lvl.LearnMore.Resources {
			id := content.ResourceID(res.ID, res.Title)
			prefix := "section.resources." + id
			lm.Resources = append(lm.Resources, resourceData{
				ID:          id,
				Icon:        res.Icon,
				URL:         res.URL,
				Title:       resolveOr(loc, prefix+".title", res.Title),
				Description: resolveOr(loc, prefix+".description", res.Description),
			})
		}

	case domain.LearnMoreCards:
		for _, card := range lvl.LearnMore.Cards {
			doc := markdown.Parse(card.Content, cardVariant(card.Variant))
			lm.Cards = append(lm.Cards, cardData{
				Title: card.Title,
				Body:  template.HTML(markdown.RenderHTML(doc)),
			})
		}

	case domain.LearnMoreTranslated:
		prefix := "section.levels." + lvl.ID + ".learnmore."
		for i := 1; i <= domain.TranslatedCardCount; i++ {
			lm.Cards = append(lm.Cards, cardData{
				Title: loc.T(fmt.Sprintf("%scard%d.title", prefix, i)),
				Body:  template.HTML(template.HTMLEscapeString(loc.T(fmt.Sprintf("%scard%d.text", prefix, i)))),
			})
		}
	}
	return lm
}

func cardVariant(v domain.CardVariant) markdown.Variant {
	switch v {
	case domain.CardTryAtHome:
		return markdown.TryAtHome
	case domain.CardVideos:
		return markdown.Videos
	default:
		return markdown.FieldGuide
	}
}
