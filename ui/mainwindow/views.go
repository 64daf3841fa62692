package mainwindow

import (
	"poster-editor/internal/editor"
	"poster-editor/internal/export"
	"poster-editor/pkg/colorutil"
	"poster-editor/pkg/geometry"
	"poster-editor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Crop selection resize step.
const selectionStep = 1.1

func (mw *MainWindow) createCropView() fyne.CanvasObject {
	mw.cropCanvas = canvas.NewViewCanvas(mw.state.Crop.Layout)
	mw.cropCanvas.OnResize(mw.state.ResizeCrop)
	mw.cropCanvas.OnWheel(mw.onWheel)
	mw.cropCanvas.OnDrag(func(dx, dy float64) {
		l, ok := mw.state.Crop.Layout()
		if !ok || l.Scale <= 0 {
			return
		}
		if _, ok := mw.state.Crop.MoveSelection(dx/l.Scale, dy/l.Scale); ok {
			mw.syncCrop()
		}
	}, nil)

	rotate := func(degrees float64) func() {
		return func() {
			if mw.state.Crop.Rotate(degrees) {
				mw.syncCrop()
				mw.updateZoomLabel()
			}
		}
	}
	resize := func(factor float64) func() {
		return func() {
			r, ok := mw.state.Crop.Selection()
			if !ok {
				return
			}
			if _, ok := mw.state.Crop.ResizeSelection(r.Width * factor); ok {
				mw.syncCrop()
			}
		}
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaReplayIcon(), rotate(-90)),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), rotate(90)),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentRemoveIcon(), resize(1/selectionStep)),
		widget.NewToolbarAction(theme.ContentAddIcon(), resize(selectionStep)),
	)
	buttons := container.NewHBox(
		widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), mw.state.CancelCrop),
		widget.NewButtonWithIcon("Crop", theme.ConfirmIcon(), mw.onConfirmCrop),
	)
	return container.NewBorder(container.NewBorder(nil, nil, toolbar, buttons), nil, nil, nil, mw.cropCanvas)
}

func (mw *MainWindow) createEditorView() fyne.CanvasObject {
	mw.editorCanvas = canvas.NewViewCanvas(mw.state.Editor.Layout)
	mw.editorCanvas.OnResize(mw.state.ResizeEditor)
	mw.editorCanvas.OnWheel(mw.onWheel)
	mw.editorCanvas.OnTap(func(x, y float64) {
		mw.state.Editor.SelectAt(x, y)
	})
	mw.editorCanvas.OnDrag(mw.onDragLayer, mw.onDropLayer)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), mw.onAddText),
		widget.NewToolbarAction(theme.FileImageIcon(), mw.onAddImage),
		widget.NewToolbarAction(theme.DeleteIcon(), mw.onDelete),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MoveUpIcon(), mw.onBringForward),
		widget.NewToolbarAction(theme.MoveDownIcon(), mw.onSendBackward),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), mw.onUndo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), mw.onRedo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { mw.state.Wheel(-1) }),
		widget.NewToolbarAction(theme.ZoomFitIcon(), mw.state.ResetZoom),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { mw.state.Wheel(1) }),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.ContentClearIcon(), mw.onClear),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), mw.onSaveProject),
	)
	return container.NewBorder(toolbar, nil, nil, nil, mw.editorCanvas)
}

// onWheel zooms whichever view is open while Ctrl is held.
func (mw *MainWindow) onWheel(notches float64) {
	if !mw.ctrlHeld {
		return
	}
	mw.state.Wheel(notches)
}

// syncCrop redraws the crop source and its selection.
func (mw *MainWindow) syncCrop() {
	img, ok := mw.state.Crop.Image()
	if !ok {
		mw.cropCanvas.SetContent(nil)
		mw.cropCanvas.SetOverlay(nil)
		return
	}
	sel, _ := mw.state.Crop.Selection()
	mw.cropCanvas.SetOverlay(&canvas.Overlay{
		Rectangles: []geometry.Rect{sel},
		Color:      colorutil.Selection,
		DimOutside: true,
	})
	mw.cropCanvas.SetContent(img)
}

// syncEditor re-renders the document at 1:1.
func (mw *MainWindow) syncEditor() {
	doc := mw.state.Editor.Document()
	if doc == nil {
		mw.editorCanvas.SetContent(nil)
		mw.editorCanvas.SetOverlay(nil)
		return
	}
	img, err := export.Render(doc, 1)
	if err != nil {
		mw.updateStatus("Render failed: " + err.Error())
		return
	}
	mw.syncSelection()
	mw.editorCanvas.SetContent(img)
	mw.updateZoomLabel()
}

// syncSelection frames the active layer, offset by any drag in progress.
func (mw *MainWindow) syncSelection() {
	l := mw.state.Editor.ActiveLayer()
	if l == nil {
		mw.editorCanvas.SetOverlay(nil)
		return
	}
	mw.editorCanvas.SetOverlay(&canvas.Overlay{
		Rectangles: []geometry.Rect{l.Bounds().Translate(mw.dragDX, mw.dragDY)},
		Color:      colorutil.Selection,
	})
}

func (mw *MainWindow) onDragLayer(dx, dy float64) {
	l, ok := mw.state.Editor.Layout()
	if !ok || l.Scale <= 0 || mw.state.Editor.ActiveLayer() == nil {
		return
	}
	mw.dragDX += dx / l.Scale
	mw.dragDY += dy / l.Scale
	mw.syncSelection()
}

// onDropLayer commits a drag as one move of the active layer.
func (mw *MainWindow) onDropLayer() {
	dx, dy := mw.dragDX, mw.dragDY
	mw.dragDX, mw.dragDY = 0, 0
	l := mw.state.Editor.ActiveLayer()
	if l == nil {
		return
	}
	moved := mw.state.Mutate(editor.Transform{
		ID:     l.ID,
		Left:   l.Left + dx,
		Top:    l.Top + dy,
		ScaleX: l.ScaleX,
		ScaleY: l.ScaleY,
		Angle:  l.Angle,
	})
	if !moved {
		mw.syncSelection()
	}
}

// onConfirmCrop accepts the crop. Without an open document the image waits
// on the welcome view for Start Editing.
func (mw *MainWindow) onConfirmCrop() {
	mw.state.ConfirmCrop()
}

func (mw *MainWindow) onAddText() {
	if !mw.state.Editor.Active() {
		return
	}
	mw.state.Mutate(editor.AddText{})
}

func (mw *MainWindow) onDelete() {
	mw.state.Mutate(editor.RemoveSelected{})
}

func (mw *MainWindow) onBringForward() {
	mw.state.Mutate(editor.BringForward{})
}

func (mw *MainWindow) onSendBackward() {
	mw.state.Mutate(editor.SendBackward{})
}

func (mw *MainWindow) onUndo() {
	mw.state.Undo()
}

func (mw *MainWindow) onRedo() {
	mw.state.Redo()
}

func (mw *MainWindow) onClear() {
	if !mw.state.Editor.Active() {
		return
	}
	dialog.ShowConfirm("Clear Canvas", "Remove every text and image layer?", func(ok bool) {
		if ok {
			mw.state.Clear(nil)
		}
	}, mw.Window)
}
