// Package cli implements the non-interactive command paths: listing
// collections and exporting endpoint summaries without the TUI.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/studiowebux/postdash/internal/config"
	"github.com/studiowebux/postdash/internal/export"
	"github.com/studiowebux/postdash/internal/extract"
	"github.com/studiowebux/postdash/internal/session"
	"github.com/studiowebux/postdash/internal/summary"
	"github.com/studiowebux/postdash/internal/types"
)

// RunOptions controls a non-interactive export
type RunOptions struct {
	// Collections holds collection ids to export; empty means all
	Collections []string
	// Methods filters endpoints by HTTP method (case-insensitive)
	Methods []string
	// Folder restricts extraction to one named folder's subtree
	Folder string
	// Format selects the rendering: text, yaml or json
	Format string
	// Filter is a JMESPath expression applied to example response bodies
	Filter string
	// SavePath writes the report to a file; empty prints to stdout
	SavePath string
	// Clipboard additionally copies the report to the system clipboard
	Clipboard bool
}

// Run performs a non-interactive export
func Run(mgr *session.Manager, opts RunOptions) error {
	if !mgr.Authenticated() {
		return fmt.Errorf("not logged in (run 'postdash login' first)")
	}

	if opts.Filter != "" && !summary.IsValidFilter(opts.Filter) {
		return fmt.Errorf("invalid JMESPath filter: %s", opts.Filter)
	}

	format := opts.Format
	if format == "" {
		format = "text"
	}

	ctx := context.Background()

	ids := opts.Collections
	if len(ids) == 0 {
		summaries, err := mgr.Collections(ctx)
		if err != nil {
			return err
		}
		for _, s := range summaries {
			ids = append(ids, s.ID)
		}
	}

	sel := mgr.Selection()
	sel.Clear()

	for _, id := range ids {
		tree, err := mgr.Tree(ctx, id)
		if err != nil {
			// Per-collection failures are reported but never abort
			// the rest of the batch
			fmt.Fprintf(os.Stderr, "warning: skipping collection %s: %v\n", id, err)
			continue
		}

		endpoints := collectEndpoints(tree, opts.Folder)
		endpoints = filterByMethod(endpoints, opts.Methods)
		sel.SelectMany(endpoints, tree.Info.Name, true)
	}

	if sel.Size() == 0 {
		return fmt.Errorf("no endpoints matched")
	}

	entries := sel.Entries()
	if opts.Filter != "" {
		entries = summary.FilterResponses(entries, opts.Filter)
	}

	var report string
	if format == "text" {
		report = summary.Render(entries)
	} else {
		var err error
		report, err = summary.RenderStructured(entries, format)
		if err != nil {
			return err
		}
	}

	if opts.Clipboard {
		if err := export.Copy(report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "copied %d endpoints to clipboard\n", sel.Size())
	}

	switch opts.SavePath {
	case "":
		fmt.Print(report)
	case "auto":
		path, err := export.Save(report, config.ExportsDir, format)
		if err != nil {
			return err
		}
		if err := mgr.Store().RecordExport(path, sel.Size(), format); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved to %s\n", path)
	default:
		if err := os.WriteFile(opts.SavePath, []byte(report), config.FilePermissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.SavePath, err)
		}
		if err := mgr.Store().RecordExport(opts.SavePath, sel.Size(), format); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved to %s\n", opts.SavePath)
	}

	return nil
}

// collectEndpoints extracts endpoints from a tree, optionally scoped to
// the first folder matching name (case-insensitive).
func collectEndpoints(tree *types.Collection, folder string) []extract.Endpoint {
	if folder == "" {
		return extract.Endpoints(tree.Items)
	}

	if subtree, ok := findFolder(tree.Items, folder); ok {
		return extract.Endpoints([]types.Item{*subtree})
	}
	return nil
}

// findFolder locates the first folder with the given name, depth-first
func findFolder(items []types.Item, name string) (*types.Item, bool) {
	for i := range items {
		if len(items[i].Items) > 0 && strings.EqualFold(items[i].Name, name) {
			return &items[i], true
		}
		if sub, ok := findFolder(items[i].Items, name); ok {
			return sub, true
		}
	}
	return nil, false
}

// filterByMethod keeps only endpoints matching one of the given methods
func filterByMethod(endpoints []extract.Endpoint, methods []string) []extract.Endpoint {
	if len(methods) == 0 {
		return endpoints
	}

	var out []extract.Endpoint
	for _, e := range endpoints {
		for _, method := range methods {
			if strings.EqualFold(e.Method, method) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// List prints the collection summaries, fetching endpoint counts when
// details is set. Per-collection fetch failures print inline.
func List(mgr *session.Manager, details bool) error {
	if !mgr.Authenticated() {
		return fmt.Errorf("not logged in (run 'postdash login' first)")
	}

	ctx := context.Background()

	var failures map[string]error
	if details {
		var err error
		failures, err = mgr.FetchAllTrees(ctx)
		if err != nil {
			return err
		}
	}

	summaries, err := mgr.Collections(ctx)
	if err != nil {
		return err
	}

	for _, s := range summaries {
		line := fmt.Sprintf("%s  %s", s.ID, s.Name)
		if s.EndpointCount >= 0 {
			line += fmt.Sprintf("  (%d endpoints)", s.EndpointCount)
		}
		if ferr, failed := failures[s.ID]; failed {
			line += fmt.Sprintf("  [fetch failed: %v]", ferr)
		}
		fmt.Println(line)
	}

	return nil
}

// ListExports prints the export history, most recent first
func ListExports(mgr *session.Manager) error {
	records, err := mgr.Store().ListExports()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("no exports yet")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %s  (%d endpoints)\n", r.Timestamp, r.Path, r.EntryCount)
	}
	return nil
}

// Login validates and persists an API key
func Login(mgr *session.Manager, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("no API key provided (pass it as an argument or set POSTMAN_API_KEY)")
	}
	if err := mgr.Login(context.Background(), apiKey); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

// Logout clears the persisted credential
func Logout(mgr *session.Manager) error {
	if err := mgr.Logout(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}
