// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strconv"

	"vector-pen/internal/app"
	"vector-pen/internal/pen"
	"vector-pen/internal/tool"
	"vector-pen/internal/version"
	"vector-pen/pkg/colorutil"
	"vector-pen/pkg/geometry"
	"vector-pen/ui/canvas"
	"vector-pen/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir = "lastDirectory"
	projectExt     = ".vpen"
	toolNone       = "none"
	docMargin      = 50.0
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	log       *slog.Logger
	tools     *tool.Table
	overlay   *geometry.Scene
	pen       *pen.Tool
	canvas    *canvas.PathCanvas
	statusBar *widget.Label
	zoomLabel *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, settings *prefs.Prefs, log *slog.Logger) *MainWindow {
	win := fyneApp.NewWindow("Vector Pen")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		prefs:   settings,
		log:     log,
		tools:   tool.NewTable(),
		overlay: geometry.NewScene(),
	}

	mw.setupTools()
	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.SetCloseIntercept(mw.onClose)
	win.Resize(fyne.NewSize(1024, 768))

	return mw
}

// setupTools registers the drawing tools and activates the pen.
func (mw *MainWindow) setupTools() {
	mw.pen = pen.New(mw.overlay, mw.prefs, mw.state)
	mw.pen.OnCursor(func(c tool.Cursor) {
		if c == tool.CursorPointer {
			mw.updateStatus("Click to close the path")
		} else {
			mw.updateStatus("Pen")
		}
	})
	if err := mw.tools.Register(mw.pen); err != nil {
		mw.log.Error("register tool", slog.Any("err", err))
	}
	if err := mw.tools.Select(pen.Name); err != nil {
		mw.log.Error("select tool", slog.Any("err", err))
	}
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPathCanvas(mw.tools, mw.overlay, mw.state.Paths)
	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel(fmt.Sprintf("%.0f%%", mw.canvas.GetZoom()*100))
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", zoom*100))
	})

	canvasArea := container.NewBorder(
		mw.createToolbar(),    // top
		nil,                   // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		canvasArea,                        // center
	)

	mw.SetContent(content)
}

// createToolbar creates the tool selector, stroke settings and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	toolSelect := widget.NewRadioGroup(append(mw.tools.Names(), toolNone), func(name string) {
		if name == toolNone {
			name = ""
		}
		if err := mw.tools.Select(name); err != nil {
			mw.log.Warn("select tool", slog.String("tool", name), slog.Any("err", err))
		}
		mw.canvas.Refresh()
	})
	toolSelect.Horizontal = true
	toolSelect.SetSelected(pen.Name)

	stroke := mw.colorEntry(mw.prefs.StrokeColor(), mw.prefs.SetStrokeColor)
	fill := mw.colorEntry(mw.prefs.FillColor(), mw.prefs.SetFillColor)

	width := widget.NewEntry()
	width.SetText(strconv.FormatFloat(mw.prefs.StrokeWidth(), 'f', -1, 64))
	width.OnSubmitted = func(s string) {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil || w <= 0 {
			dialog.ShowError(fmt.Errorf("invalid stroke width %q", s), mw.Window)
			return
		}
		mw.prefs.SetStrokeWidth(w)
	}

	return container.NewHBox(
		toolSelect,
		widget.NewSeparator(),
		widget.NewLabel("Stroke:"), stroke,
		widget.NewLabel("Width:"), width,
		widget.NewLabel("Fill:"), fill,
		widget.NewSeparator(),
		widget.NewButton("-", mw.onZoomOut),
		mw.zoomLabel,
		widget.NewButton("+", mw.onZoomIn),
		widget.NewButton("1:1", mw.onActualSize),
	)
}

// colorEntry builds a hex color field that stores valid input via set.
func (mw *MainWindow) colorEntry(initial color.NRGBA, set func(color.NRGBA)) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(colorutil.Hex(initial))
	e.OnSubmitted = func(s string) {
		c, err := colorutil.ParseHex(s)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		set(c)
	}
	return e
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Drawing", mw.onNewProject),
		fyne.NewMenuItem("Open...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSaveProject),
		fyne.NewMenuItem("Save As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", mw.onClose),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Vector Pen - " + filepath.Base(path))
			mw.updateStatus("Opened " + path)
		}
		mw.canvas.FitDocument(mw.state.Paths(), docMargin)
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Vector Pen - " + filepath.Base(path))
			mw.updateStatus("Saved " + path)
		}
	})

	mw.state.On(app.EventProjectCleared, func(interface{}) {
		mw.SetTitle("Vector Pen - New Drawing")
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventCanvasModified, func(data interface{}) {
		if action, ok := data.(string); ok {
			mw.updateStatus(fmt.Sprintf("%s: %d paths", action, len(mw.state.Paths())))
		}
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	if mw.statusBar == nil {
		return
	}
	mw.statusBar.SetText(text)
}

// SavePreferences writes the paint settings to disk.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		mw.log.Error("save preferences", slog.String("path", mw.prefs.Path()), slog.Any("err", err))
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

// onClose finishes any pending path and offers to save unsaved changes
// before the window goes away.
func (mw *MainWindow) onClose() {
	if mw.tools.Active() != nil {
		if err := mw.tools.Select(""); err != nil {
			mw.log.Warn("deselect tool", slog.Any("err", err))
		}
	}
	mw.SavePreferences()
	if !mw.state.IsModified() {
		mw.Close()
		return
	}

	confirm := dialog.NewConfirm("Unsaved Changes",
		"The drawing has unsaved changes. Save before closing?",
		func(save bool) {
			if !save {
				mw.Close()
				return
			}
			mw.save(mw.Close)
		}, mw.Window)
	confirm.SetConfirmText("Save")
	confirm.SetDismissText("Discard")
	confirm.Show()
}

func (mw *MainWindow) onNewProject() {
	mw.pen.Cancel()
	mw.state.NewProject()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.pen.Cancel()
		if err := mw.state.LoadProject(path); err != nil {
			mw.log.Error("open project", slog.Any("err", err))
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{projectExt}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	mw.save(nil)
}

func (mw *MainWindow) onSaveProjectAs() {
	mw.saveAs(nil)
}

// save writes to the current project file, asking for one if there is none.
// The then callback, if any, runs after a successful save.
func (mw *MainWindow) save(then func()) {
	if mw.state.ProjectPath == "" {
		mw.saveAs(then)
		return
	}
	if mw.saveTo(mw.state.ProjectPath) && then != nil {
		then()
	}
}

func (mw *MainWindow) saveAs(then func()) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != projectExt {
			path += projectExt
		}
		mw.saveLastDir(path)
		if mw.saveTo(path) && then != nil {
			then()
		}
	}, mw.Window)
	fd.SetFileName("drawing" + projectExt)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) saveTo(path string) bool {
	if err := mw.state.SaveProject(path); err != nil {
		mw.log.Error("save project", slog.Any("err", err))
		dialog.ShowError(err, mw.Window)
		return false
	}
	return true
}

func (mw *MainWindow) onZoomIn() {
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onActualSize() {
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Vector Pen",
		fmt.Sprintf("Vector Pen %s\n\n"+
			"Draw polylines and bezier paths with the pen tool.\n"+
			"Click to add points, drag to shape curves, click the\n"+
			"first point, double-click or press Enter to finish.\n"+
			"Escape discards the current path.",
			version.String()),
		mw.Window)
}
