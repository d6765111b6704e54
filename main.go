// Package main provides the entry point for the Vector Pen application.
package main

import (
	"log/slog"
	"os"

	"vector-pen/internal/app"
	"vector-pen/internal/pen"
	"vector-pen/internal/version"
	"vector-pen/ui/mainwindow"
	"vector-pen/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "com.github.vectorpen"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)
	pen.SetLogger(logger.With("component", "pen"))

	logger.Info("starting", slog.String("version", version.String()))

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.EditorTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appState, appPrefs, logger)

	// Handle command line arguments
	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		if err := appState.LoadProject(projectPath); err != nil {
			logger.Error("load project", slog.String("path", projectPath), slog.Any("err", err))
		}
	}

	win.ShowAndRun()
}

// logLevel reads VECTOR_PEN_LOG (debug, info, warn, error).
func logLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(os.Getenv("VECTOR_PEN_LOG"))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
