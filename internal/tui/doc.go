// Package tui implements the interactive dashboard: credential entry,
// collection browsing, checkbox selection over the folder/request tree,
// and the summary preview with clipboard and file export.
package tui
