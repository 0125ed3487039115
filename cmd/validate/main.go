// Command validate lints a content tree: every grade manifest must parse and
// pass integrity checks, and every translation bundle must be valid JSON.
// Intended as a pre-deploy gate for content changes.
//
// Exit codes: 0 = content is valid, 1 = at least one problem found.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/meadowmath/meadowmath-backend/internal/app"
	"github.com/meadowmath/meadowmath-backend/internal/config"
	"github.com/meadowmath/meadowmath-backend/internal/content"
	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/i18n"
)

func main() {
	dirFlag := flag.String("dir", "", "content directory (default: content.dir from config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	dir := cfg.Content.Dir
	if *dirFlag != "" {
		dir = *dirFlag
	}
	contentFS := os.DirFS(dir)

	ctx := context.Background()
	problems := 0

	lib := content.NewLibrary(contentFS, logger)
	for _, grade := range domain.Grades {
		if _, err := lib.Manifest(ctx, grade); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // grades without a manifest are simply not published
			}
			problems++
			fmt.Fprintf(os.Stderr, "manifest %s: %v\n", grade, err)
		}
	}

	src := i18n.NewFSSource(contentFS)
	for _, lang := range domain.SupportedLanguages {
		scopes := []string{i18n.ScopeCommon}
		for _, grade := range domain.Grades {
			scopes = append(scopes, string(grade))
		}
		for _, scope := range scopes {
			if _, err := src.LoadBundle(ctx, lang, scope); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue // missing bundles fall back at runtime
				}
				problems++
				fmt.Fprintf(os.Stderr, "bundle %s/%s: %v\n", lang, scope, err)
			}
		}
	}

	if problems > 0 {
		logger.Error("content validation failed", slog.Int("problems", problems))
		os.Exit(1)
	}
	logger.Info("content is valid", slog.String("dir", dir))
}
