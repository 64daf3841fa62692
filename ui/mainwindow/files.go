package mainwindow

import (
	"path/filepath"
	"strings"

	"poster-editor/internal/editor"
	posterimage "poster-editor/internal/image"
	"poster-editor/internal/project"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

var exportNames = map[string]string{
	".png":  "poster.png",
	".svg":  "poster.svg",
	".html": "poster-print.html",
	".json": "poster.json",
}

// openFile shows a file open dialog filtered to exts and calls fn with the
// chosen path.
func (mw *MainWindow) openFile(exts []string, fn func(path string)) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		fn(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// saveFile shows a file save dialog and calls fn with the chosen path, with
// ext appended when missing.
func (mw *MainWindow) saveFile(name, ext string, fn func(path string)) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !strings.EqualFold(filepath.Ext(path), ext) {
			path += ext
		}
		mw.saveLastDir(path)
		fn(path)
	}, mw.Window)
	fd.SetFileName(name)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onNewTemplate() {
	start := func() {
		mw.state.CancelCrop()
		mw.state.DiscardPending()
		mw.state.StartEditing()
		mw.SetTitle(title + " - New Poster")
	}
	if mw.state.Modified {
		dialog.ShowConfirm("Discard Changes", "The current poster has unsaved changes. Start a new one?",
			func(ok bool) {
				if ok {
					start()
				}
			}, mw.Window)
		return
	}
	start()
}

// onImportImage loads an image into the crop view.
func (mw *MainWindow) onImportImage() {
	mw.openFile(posterimage.SupportedFormats(), func(path string) {
		mw.awaitCrop(mw.state.ImportImage(path))
	})
}

// awaitCrop resumes the crop on the UI goroutine once the decode finishes.
func (mw *MainWindow) awaitCrop(load *posterimage.Future) {
	mw.state.AwaitCrop(load, mw.dispatch, func(err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
		}
	})
}

func (mw *MainWindow) onAddImage() {
	if !mw.state.Editor.Active() {
		return
	}
	mw.openFile(posterimage.SupportedFormats(), func(path string) {
		pic, err := posterimage.LoadFile(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.state.Mutate(editor.AddImage{Picture: pic})
	})
}

func (mw *MainWindow) onOpenProject() {
	mw.openFile([]string{project.Extension}, func(path string) {
		mw.state.CancelCrop()
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	})
}

func (mw *MainWindow) onSaveProject() {
	if !mw.state.Editor.Active() {
		return
	}
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	if !mw.state.Editor.Active() {
		return
	}
	mw.saveFile("poster"+project.Extension, project.Extension, func(path string) {
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	})
}

func (mw *MainWindow) onExport(ext string) {
	if !mw.state.Editor.Active() {
		dialog.ShowError(editor.ErrNoDocument, mw.Window)
		return
	}
	mw.saveFile(exportNames[ext], ext, func(path string) {
		if err := mw.state.Export(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + path)
	})
}
