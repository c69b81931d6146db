// Package ui implements the Fyne desktop front-end: the download form,
// the log view with progress bars, and the wiring that marshals worker
// notifications onto the UI thread.
package ui
