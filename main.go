// Package main provides the entry point for the Poster Editor application.
package main

import (
	"flag"
	"log"

	"poster-editor/internal/app"
	"poster-editor/internal/config"
	"poster-editor/internal/version"
	"poster-editor/ui/mainwindow"
	"poster-editor/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appID    = "io.github.poster-editor"
	appTitle = "Poster Editor"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", config.DefaultPath(), "Path to YAML configuration")
	flag.Parse()

	log.Printf("Starting %s", version.String(appTitle))

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *configPath, err)
	}
	appPrefs := prefs.Load()

	appState := app.NewState(cfg, cfg.Logger())

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.PosterTheme{})

	win := mainwindow.New(fyneApp, appState, appPrefs)

	// Handle command line arguments
	if flag.NArg() > 0 {
		projectPath := flag.Arg(0)
		if err := appState.LoadProject(projectPath); err != nil {
			log.Printf("Failed to load project %s: %v", projectPath, err)
		}
	}

	win.ShowAndRun()
}
