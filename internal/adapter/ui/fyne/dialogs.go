package fyne

import (
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// DeckDialog is a helper for picking a YAML deck file.
type DeckDialog struct {
	window   fyne.Window
	callback func(string)
	logger   *slog.Logger
	location string
}

// NewDeckDialog creates a new deck file dialog.
func NewDeckDialog(window fyne.Window, callback func(string), logger *slog.Logger) *DeckDialog {
	return &DeckDialog{
		window:   window,
		callback: callback,
		logger:   logger,
	}
}

// WithLocation makes the dialog start in dir when it exists.
func (d *DeckDialog) WithLocation(dir string) *DeckDialog {
	d.location = dir
	return d
}

// Show displays the file dialog.
func (d *DeckDialog) Show() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			d.logger.Error("deck dialog error", slog.Any("error", err))
			return
		}
		if reader == nil {
			return // User cancelled
		}
		defer reader.Close()

		// Get file path
		filePath := reader.URI().Path()
		if d.callback != nil {
			d.callback(filePath)
		}
	}, d.window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
	if lister := listerFor(d.location); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

// FolderDialog is a helper for creating folder open dialogs.
type FolderDialog struct {
	window   fyne.Window
	callback func(string)
	logger   *slog.Logger
	location string
}

// NewFolderDialog creates a new folder dialog.
func NewFolderDialog(window fyne.Window, callback func(string), logger *slog.Logger) *FolderDialog {
	return &FolderDialog{
		window:   window,
		callback: callback,
		logger:   logger,
	}
}

// WithLocation makes the dialog start in dir when it exists.
func (d *FolderDialog) WithLocation(dir string) *FolderDialog {
	d.location = dir
	return d
}

// Show displays the folder dialog.
func (d *FolderDialog) Show() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			d.logger.Error("folder dialog error", slog.Any("error", err))
			return
		}
		if uri == nil {
			return // User cancelled
		}

		// Get folder path
		folderPath := uri.Path()
		if d.callback != nil {
			d.callback(folderPath)
		}
	}, d.window)

	if lister := listerFor(d.location); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

// listerFor returns a listable URI for an existing directory, nil otherwise.
func listerFor(dir string) fyne.ListableURI {
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return lister
}
