package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/i18n"
)

type fakeLibrary struct {
	manifests map[domain.GradeID]*domain.Manifest
	calls     int
	err       error
}

func (f *fakeLibrary) Manifest(_ context.Context, grade domain.GradeID) (*domain.Manifest, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.manifests[grade]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T, files fstest.MapFS, sections ...string) *i18n.Catalog {
	t.Helper()
	cat := i18n.New(i18n.NewFSSource(files), discard(), domain.LangEnglish)
	ctx := context.Background()
	_ = cat.Load(ctx, domain.LangEnglish)
	_ = cat.Load(ctx, domain.LangSpanish)
	for _, s := range sections {
		_ = cat.LoadSection(ctx, domain.LangEnglish, s)
		_ = cat.LoadSection(ctx, domain.LangSpanish, s)
	}
	return cat
}

func prekManifest() *domain.Manifest {
	return &domain.Manifest{
		Grade: domain.GradePreK,
		Levels: []domain.Level{
			{
				ID:     "counting",
				Number: 1,
				Title:  "Counting to 10",
				Goal:   "Count objects one by one",
				Activities: []domain.Activity{
					{ID: "ten-frame", Icon: "🔟", Path: "/prek/ten-frame/", Title: "Ten Frame", Description: "Fill the frame"},
				},
				LearnMore: domain.LearnMore{
					Resources: []domain.Resource{
						{Title: "Counting Songs for Car Rides", Description: "Sing along", Icon: "🎵"},
					},
				},
			},
		},
	}
}

func newTestRenderer(t *testing.T, lib manifestSource, cat *i18n.Catalog) *Renderer {
	t.Helper()
	r, err := New(lib, cat, discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestPageEscapesDataText(t *testing.T) {
	m := prekManifest()
	m.Levels[0].Activities[0].Title = `<script>alert(1)</script>`

	lib := &fakeLibrary{manifests: map[domain.GradeID]*domain.Manifest{domain.GradePreK: m}}
	cat := testCatalog(t, fstest.MapFS{
		"lang/en/common.json": {Data: []byte(`{}`)},
	})
	r := newTestRenderer(t, lib, cat)

	page, err := r.Page(context.Background(), domain.GradePreK, domain.LangEnglish)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if strings.Contains(page, "<script>") {
		t.Error("script tag rendered unescaped")
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Error("escaped entities missing from rendered title")
	}
}

func TestPageTabGroupStructure(t *testing.T) {
	lib := &fakeLibrary{manifests: map[domain.GradeID]*domain.Manifest{domain.GradePreK: prekManifest()}}
	cat := testCatalog(t, fstest.MapFS{
		"lang/en/common.json": {Data: []byte(`{"tabs":{"activities":"Activities","learnMore":"Learn More"}}`)},
	})
	r := newTestRenderer(t, lib, cat)

	page, err := r.Page(context.Background(), domain.GradePreK, domain.LangEnglish)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	// One active button and one active panel per level, first pair active.
	if got := strings.Count(page, `class="tab-button active"`); got != 1 {
		t.Errorf("active tab buttons = %d, want 1", got)
	}
	if got := strings.Count(page, `class="tab-panel active"`); got != 1 {
		t.Errorf("active panels = %d, want 1", got)
	}
	activeBtn := strings.Index(page, `class="tab-button active"`)
	learnBtn := strings.Index(page, `data-tab="learn-more"`)
	if activeBtn == -1 || learnBtn == -1 || activeBtn > learnBtn {
		t.Error("first (Activities) tab is not the active one")
	}
}

func TestPageResolvesTranslationsWithManifestFallback(t *testing.T) {
	lib := &fakeLibrary{manifests: map[domain.GradeID]*domain.Manifest{domain.GradePreK: prekManifest()}}
	cat := testCatalog(t, fstest.MapFS{
		"lang/en/common.json": {Data: []byte(`{}`)},
		"lang/es/common.json": {Data: []byte(`{}`)},
		"lang/es/prek.json":   {Data: []byte(`{"levels":{"counting":{"title":"Contar hasta 10"}}}`)},
	}, "prek")
	r := newTestRenderer(t, lib, cat)

	page, err := r.Page(context.Background(), domain.GradePreK, domain.LangSpanish)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !strings.Contains(page, "Contar hasta 10") {
		t.Error("translated level title missing")
	}
	// Goal has no translation anywhere: manifest value must appear, not the key.
	if !strings.Contains(page, "Count objects one by one") {
		t.Error("manifest fallback goal missing")
	}
	if strings.Contains(page, "section.levels.counting.goal") {
		t.Error("raw translation key leaked into the page")
	}
}

func TestPagePreKResourceCards(t *testing.T) {
	lib := &fakeLibrary{manifests: map[domain.GradeID]*domain.Manifest{domain.GradePreK: prekManifest()}}
	cat := testCatalog(t, fstest.MapFS{"lang/en/common.json": {Data: []byte(`{}`)}})
	r := newTestRenderer(t, lib, cat)

	page, err := r.Page(context.Background(), domain.GradePreK, domain.LangEnglish)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	// Derived id from the title pattern table.
	if !strings.Contains(page, `data-resource="counting-songs"`) {
		t.Error("derived resource id missing")
	}
	if !strings.Contains(page, "Counting Songs for Car Rides") {
		t.Error("resource title missing")
	}
}

func TestPageMarkdownCards(t *testing.T) {
	m := &domain.Manifest{
		Grade: domain.Grade2,
		Levels: []domain.Level{
			{
				ID: "place-value", Number: 1, Title: "Place Value", Goal: "Tens and ones",
				Activities: []domain.Activity{{ID: "base-blocks", Title: "Base Blocks", Path: "/g2/base-blocks/"}},
				LearnMore: domain.LearnMore{
					Cards: []domain.Card{
						{Title: "Try at Home", Variant: domain.CardTryAtHome, Content: "* **Snack Math** count crackers"},
					},
				},
			},
		},
	}
	lib := &fakeLibrary{manifests: map[domain.GradeID]*domain.Manifest{domain.Grade2: m}}
	cat := testCatalog(t, fstest.MapFS{"lang/en/common.json": {Data: []byte(`{}`)}})
	r := newTestRenderer(t, lib, cat)

	page, err := r.Page(context.Background(), domain.Grade2, domain.LangEnglish)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !strings.Contains(page, `<span class="item-title">Snack Math</span>`) {
		t.Error("try-at-home bullet title not rendered")
	}
	if !strings.Contains(page, "count crackers") {
		t.Error("bullet description missing")
	}
}

func TestPageTranslatedLearnMore(t *testing.T) {
	m := &domain.Manifest{
		Grade: domain.Grade1,
		Levels: []domain.Level{
			{
				ID: "addition", Number: 1, Title: "Addition", Goal: "Sums to 10",
				Activities: []domain.Activity{{ID: "number-bonds", Title: "Number Bonds", Path: "/g1/number-bonds/"}},
			},
		},
	}
	lib := &fakeLibrary{manifests: map[domain.GradeID]*domain.Manifest{domain.Grade1: m}}
	cat := testCatalog(t, fstest.MapFS{
		"lang/en/common.json": {Data: []byte(`{}`)},
		"lang/en/grade1.json": {Data: []byte(`{"levels":{"addition":{"learnmore":{
			"card1":{"title":"Why it matters","text":"Addition is the base"},
			"card2":{"title":"At home","text":"Count toys"},
			"card3":{"title":"Watch for","text":"Finger counting is fine"},
			"card4":{"title":"Next up","text":"Subtraction"}}}}}`)},
	}, "grade1")
	r := newTestRenderer(t, lib, cat)

	page, err := r.Page(context.Background(), domain.Grade1, domain.LangEnglish)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	for _, want := range []string{"Why it matters", "Count toys", "Finger counting is fine", "Subtraction"} {
		if !strings.Contains(page, want) {
			t.Errorf("translated card copy %q missing", want)
		}
	}
	if got := strings.Count(page, `class="learn-more-card"`); got != domain.TranslatedCardCount {
		t.Errorf("learn-more cards = %d, want %d", got, domain.TranslatedCardCount)
	}
}

func TestPageCacheAndInvalidation(t *testing.T) {
	lib := &fakeLibrary{manifests: map[domain.GradeID]*domain.Manifest{domain.GradePreK: prekManifest()}}
	files := fstest.MapFS{
		"lang/en/common.json": {Data: []byte(`{}`)},
		"lang/en/prek.json":   {Data: []byte(`{}`)},
	}
	cat := i18n.New(i18n.NewFSSource(files), discard(), domain.LangEnglish)
	ctx := context.Background()
	_ = cat.Load(ctx, domain.LangEnglish)
	r := newTestRenderer(t, lib, cat)

	if _, err := r.Page(ctx, domain.GradePreK, domain.LangEnglish); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if _, err := r.Page(ctx, domain.GradePreK, domain.LangEnglish); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if lib.calls != 1 {
		t.Fatalf("manifest loads = %d, want 1 (second render must hit the cache)", lib.calls)
	}

	// A bundle load for the language drops its cached pages.
	_ = cat.LoadSection(ctx, domain.LangEnglish, "prek")
	if _, err := r.Page(ctx, domain.GradePreK, domain.LangEnglish); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if lib.calls != 2 {
		t.Errorf("manifest loads after invalidation = %d, want 2", lib.calls)
	}
}

func TestPageManifestFailure(t *testing.T) {
	lib := &fakeLibrary{err: errors.New("fs gone")}
	cat := testCatalog(t, fstest.MapFS{"lang/en/common.json": {Data: []byte(`{}`)}})
	r := newTestRenderer(t, lib, cat)

	if _, err := r.Page(context.Background(), domain.GradePreK, domain.LangEnglish); err == nil {
		t.Fatal("Page succeeded with a broken library")
	}

	block := r.ErrorBlock(domain.LangEnglish)
	if !strings.Contains(block, "load-error") || strings.Contains(block, "fs gone") {
		t.Errorf("error block leaks diagnostics or lacks structure: %q", block)
	}
}
