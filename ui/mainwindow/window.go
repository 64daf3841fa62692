// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"strings"

	"poster-editor/internal/app"
	"poster-editor/internal/crop"
	"poster-editor/internal/version"
	"poster-editor/ui/canvas"
	"poster-editor/ui/panels"
	"poster-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const title = "Poster Editor"

// MainWindow is the primary application window. It shows one of three
// views: the welcome view before any document exists, the crop view while an
// image is being cropped, and the editor.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	// dispatch runs work on the UI goroutine, which owns state.
	dispatch app.Dispatcher

	editorCanvas *canvas.ViewCanvas
	cropCanvas   *canvas.ViewCanvas
	welcome      fyne.CanvasObject
	cropView     fyne.CanvasObject
	editorView   fyne.CanvasObject

	pendingLabel *widget.Label
	startButton  *widget.Button

	paperPanel *panels.PaperPanel
	textPanel  *panels.TextPanel
	statusBar  *widget.Label
	zoomLabel  *widget.Label

	undoItem *fyne.MenuItem
	redoItem *fyne.MenuItem

	// ctrlHeld gates wheel zoom.
	ctrlHeld bool

	// Pending drag of the active layer, in canvas pixels.
	dragDX, dragDY float64
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(title)

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    state,
		prefs:    p,
		dispatch: fyne.Do,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeys()
	mw.setupEventHandlers()
	mw.showView()

	win.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1280)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, 860)),
	))
	win.SetOnClosed(mw.savePrefs)
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("")

	mw.paperPanel = panels.NewPaperPanel(mw.state,
		mw.prefs.StringWithFallback(prefs.KeyPaper, "A4"),
		mw.prefs.Bool(prefs.KeyLandscape, false))
	mw.paperPanel.OnChange(func(name string, landscape bool) {
		mw.prefs.SetString(prefs.KeyPaper, name)
		mw.prefs.SetBool(prefs.KeyLandscape, landscape)
	})
	mw.textPanel = panels.NewTextPanel(mw.state)

	mw.welcome = mw.createWelcome()
	mw.cropView = mw.createCropView()
	mw.editorView = mw.createEditorView()

	side := container.NewVScroll(container.NewVBox(
		mw.paperPanel.Container(),
		widget.NewSeparator(),
		mw.textPanel.Container(),
	))
	side.SetMinSize(fyne.NewSize(260, 0))

	statusArea := container.NewBorder(nil, nil, nil, mw.zoomLabel, mw.statusBar)
	center := container.NewStack(mw.welcome, mw.editorView, mw.cropView)

	mw.SetContent(container.NewBorder(nil, statusArea, nil, side, center))
}

func (mw *MainWindow) createWelcome() fyne.CanvasObject {
	mw.pendingLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	mw.startButton = widget.NewButton("Start Editing", mw.onStartEditing)
	mw.startButton.Importance = widget.HighImportance
	mw.updateWelcome()
	return container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle("Create a poster or note", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Upload a background image and crop it to the paper size,\nor start from a blank template."),
		widget.NewButton("Upload Image...", mw.onImportImage),
		widget.NewButton("Blank Template", mw.onNewTemplate),
		widget.NewButton("Open Project...", mw.onOpenProject),
		widget.NewSeparator(),
		mw.pendingLabel,
		mw.startButton,
	))
}

// updateWelcome offers Start Editing while a cropped image waits for it.
func (mw *MainWindow) updateWelcome() {
	pic := mw.state.Pending()
	if pic == nil {
		mw.pendingLabel.SetText("No image yet")
		mw.startButton.Disable()
		return
	}
	mw.pendingLabel.SetText(fmt.Sprintf("Image ready (%dx%d), adjust the paper and start editing", pic.Width, pic.Height))
	mw.startButton.Enable()
}

func (mw *MainWindow) onStartEditing() {
	if mw.state.Pending() == nil {
		return
	}
	mw.state.StartEditing()
	mw.SetTitle(title + " - New Poster")
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Blank Template", mw.onNewTemplate),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Upload Background Image...", mw.onImportImage),
		fyne.NewMenuItem("Start Editing", mw.onStartEditing),
		fyne.NewMenuItem("Add Image Layer...", mw.onAddImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", func() { mw.onExport(".png") }),
		fyne.NewMenuItem("Export SVG...", func() { mw.onExport(".svg") }),
		fyne.NewMenuItem("Export Print Page...", func() { mw.onExport(".html") }),
		fyne.NewMenuItem("Export JSON...", func() { mw.onExport(".json") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.undoItem = fyne.NewMenuItem("Undo", mw.onUndo)
	mw.redoItem = fyne.NewMenuItem("Redo", mw.onRedo)
	editMenu := fyne.NewMenu("Edit",
		mw.undoItem,
		mw.redoItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Add Text", mw.onAddText),
		fyne.NewMenuItem("Delete Selected", mw.onDelete),
		fyne.NewMenuItem("Bring Forward", mw.onBringForward),
		fyne.NewMenuItem("Send Backward", mw.onSendBackward),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Canvas...", mw.onClear),
	)

	textMenu := fyne.NewMenu("Text",
		fyne.NewMenuItem("Bold", func() { mw.state.ToggleBold() }),
		fyne.NewMenuItem("Italic", func() { mw.state.ToggleItalic() }),
		fyne.NewMenuItem("Underline", func() { mw.state.ToggleUnderline() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.state.Wheel(1) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.state.Wheel(-1) }),
		fyne.NewMenuItem("Fit to Window", mw.state.ResetZoom),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, textMenu, viewMenu, helpMenu))
	mw.updateHistoryItems()
}

// setupKeys tracks the Ctrl key for wheel zoom and registers shortcuts.
func (mw *MainWindow) setupKeys() {
	if dc, ok := mw.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			switch ev.Name {
			case desktop.KeyControlLeft, desktop.KeyControlRight:
				mw.ctrlHeld = true
			case fyne.KeyDelete:
				mw.onDelete()
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if ev.Name == desktop.KeyControlLeft || ev.Name == desktop.KeyControlRight {
				mw.ctrlHeld = false
			}
		})
	}

	shortcut := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		mw.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod},
			func(fyne.Shortcut) { fn() })
	}
	shortcut(fyne.KeyZ, fyne.KeyModifierShortcutDefault, mw.onUndo)
	shortcut(fyne.KeyY, fyne.KeyModifierShortcutDefault, mw.onRedo)
	shortcut(fyne.KeyZ, fyne.KeyModifierShortcutDefault|fyne.KeyModifierShift, mw.onRedo)
	shortcut(fyne.KeyS, fyne.KeyModifierShortcutDefault, mw.onSaveProject)
	shortcut(fyne.KeyO, fyne.KeyModifierShortcutDefault, mw.onOpenProject)
	shortcut(fyne.KeyT, fyne.KeyModifierShortcutDefault, mw.onAddText)
	shortcut(fyne.KeyB, fyne.KeyModifierShortcutDefault, func() { mw.state.ToggleBold() })
	shortcut(fyne.KeyI, fyne.KeyModifierShortcutDefault, func() { mw.state.ToggleItalic() })
	shortcut(fyne.KeyU, fyne.KeyModifierShortcutDefault, func() { mw.state.ToggleUnderline() })
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoading, func(interface{}) {
		mw.cropCanvas.SetContent(nil)
		mw.cropCanvas.SetOverlay(nil)
		mw.showView()
		mw.updateStatus("Loading image...")
	})

	mw.state.On(app.EventCropReady, func(interface{}) {
		if size := mw.cropCanvas.Size(); size.Width > 0 {
			mw.state.ResizeCrop(float64(size.Width), float64(size.Height))
		}
		mw.syncCrop()
		mw.updateStatus("Drag to position the crop, Ctrl+wheel to zoom")
	})

	mw.state.On(app.EventCropClosed, func(data interface{}) {
		mw.showView()
		if outcome, ok := data.(crop.Outcome); ok {
			mw.updateStatus("Crop " + outcome.String())
		}
	})

	mw.state.On(app.EventPendingChanged, func(data interface{}) {
		mw.updateWelcome()
		if data != nil {
			mw.updateStatus("Image ready, press Start Editing")
		}
	})

	mw.state.On(app.EventEditingStarted, func(interface{}) {
		mw.onDocumentReplaced()
		mw.updateStatus("Editing")
	})

	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		mw.paperPanel.Show(mw.state.Paper)
		mw.onDocumentReplaced()
		if path, ok := data.(string); ok {
			mw.SetTitle(title + " - " + filepath.Base(path))
			mw.updateStatus("Project loaded: " + path)
		}
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(title + " - " + filepath.Base(path))
			mw.updateStatus("Project saved: " + path)
		}
	})

	mw.state.On(app.EventDocumentChanged, func(interface{}) {
		mw.syncEditor()
		mw.updateHistoryItems()
	})

	mw.state.On(app.EventSelectionChanged, func(interface{}) {
		mw.syncSelection()
		mw.textPanel.Sync()
	})

	mw.state.On(app.EventZoomChanged, func(data interface{}) {
		switch data {
		case app.ZoomCrop:
			mw.syncCrop()
		case app.ZoomEditor:
			mw.syncSelection()
		}
		mw.updateZoomLabel()
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		t := strings.TrimSuffix(mw.Title(), " *")
		if modified, ok := data.(bool); ok && modified {
			t += " *"
		}
		mw.SetTitle(t)
	})
}

// showView brings the view matching the application state to the front.
func (mw *MainWindow) showView() {
	mw.welcome.Hide()
	mw.editorView.Hide()
	mw.cropView.Hide()
	switch {
	case mw.state.Crop.State() == crop.StateOpen:
		mw.cropView.Show()
	case mw.state.Editor.Active():
		mw.editorView.Show()
	default:
		mw.welcome.Show()
	}
}

// onDocumentReplaced shows a new or loaded document at the current size.
func (mw *MainWindow) onDocumentReplaced() {
	mw.showView()
	if size := mw.editorCanvas.Size(); size.Width > 0 {
		mw.state.ResizeEditor(float64(size.Width), float64(size.Height))
	}
	mw.syncEditor()
	mw.textPanel.Sync()
	mw.updateHistoryItems()
}

func (mw *MainWindow) updateHistoryItems() {
	mw.undoItem.Disabled = !mw.state.Editor.CanUndo()
	mw.redoItem.Disabled = !mw.state.Editor.CanRedo()
	if menu := mw.MainMenu(); menu != nil {
		menu.Refresh()
	}
}

func (mw *MainWindow) updateZoomLabel() {
	var view interface{ Percent() int }
	if v := mw.state.Crop.View(); v != nil && mw.state.Crop.IsReady() {
		view = v
	} else if v := mw.state.Editor.View(); v != nil {
		view = v
	}
	if view == nil {
		mw.zoomLabel.SetText("")
		return
	}
	mw.zoomLabel.SetText(fmt.Sprintf("%d%%", view.Percent()))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

func (mw *MainWindow) savePrefs() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		fyne.LogError("save preferences", err)
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+title,
		version.String(title)+"\n\n"+
			"Crop a photo to a paper size, add text and images,\n"+
			"then export PNG, SVG, a print page or JSON.",
		mw.Window)
}
