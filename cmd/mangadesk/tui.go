package cmd

import (
	"context"
	"fmt"

	"github.com/kerbaras/mangadesk/pkg/app"
	"github.com/kerbaras/mangadesk/pkg/app/screens"
	"github.com/kerbaras/mangadesk/pkg/config"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/services"
	"github.com/kerbaras/mangadesk/pkg/viewmodel"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	repo, err := data.OpenRepository(e.cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer repo.Close()

	b, err := repo.LoadBundle(viewmodel.SourcesMenuScope)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sources := e.sources()
	chapters := e.chapters()
	mangas := e.mangas()

	menu := viewmodel.NewSourcesMenu(ctx, viewmodel.SourcesMenuParams{
		Bundle:    b,
		Sources:   sources,
		Languages: config.NewStore(e.cfg),
		ServerURL: e.cfg.Server.URL,
		Logger:    e.logger,
	})
	exporter := services.NewExporter(chapters, mangas, e.cfg.Data.ExportDir, e.logger)

	runErr := app.NewApp(screens.Deps{
		Menu:     menu,
		Browser:  sources,
		Mangas:   mangas,
		Chapters: chapters,
		Exporter: exporter,
		Bundle:   b,
		Logger:   e.logger,
	}).Run(ctx)

	// Stop in-flight exports and loads before tearing down.
	cancel()
	_ = menu.Close()
	exporter.Close()

	if err := repo.SaveBundle(viewmodel.SourcesMenuScope, b); err != nil {
		e.logger.Error().Err(err).Msg("failed to save sources menu state")
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}
