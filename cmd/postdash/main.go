package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studiowebux/postdash/internal/cli"
	"github.com/studiowebux/postdash/internal/config"
	"github.com/studiowebux/postdash/internal/session"
	"github.com/studiowebux/postdash/internal/store"
	"github.com/studiowebux/postdash/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "postdash [collection/<id>]",
	Short: "postdash - collection dashboard and endpoint exporter",
	Long: `postdash is a terminal dashboard for your Postman collections.

It lists your collections, lets you browse each folder/request tree,
select the requests you care about, and export a formatted summary
(method, URL, query parameters, body, saved example responses) to the
clipboard or a file.

Run without arguments to start the dashboard. Pass collection/<id> to
open one collection's tree directly - the same form works as a shareable
deep link.

Examples:
  postdash                                   # Start the dashboard
  postdash collection/12345-abcd             # Open one collection directly
  postdash login <api-key>                   # Store your API key
  postdash list --details                    # Collections with endpoint counts
  postdash export -c 12345-abcd -m GET       # Print GET endpoints as text
  postdash export --format yaml --save auto  # Save a YAML export`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		deepLink := ""
		if len(args) > 0 {
			deepLink = strings.TrimPrefix(args[0], "collection/")
			if deepLink == args[0] || deepLink == "" {
				return fmt.Errorf("invalid argument %q (expected collection/<id>)", args[0])
			}
		}

		return tui.Run(mgr, version, deepLink)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [api-key]",
	Short: "Validate and store your API key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		apiKey := os.Getenv("POSTMAN_API_KEY")
		if len(args) > 0 {
			apiKey = args[0]
		}
		return cli.Login(mgr, apiKey)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		return cli.Logout(mgr)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections (or past exports)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		if listExports {
			return cli.ListExports(mgr)
		}
		return cli.List(mgr, listDetails)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a summary of selected endpoints",
	Long: `Export renders the text summary for endpoints matched by the given
filters. Without --collection every collection is included. Use --save auto
to write a timestamped file into the exports directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		opts := cli.RunOptions{
			Collections: exportCollections,
			Methods:     exportMethods,
			Folder:      exportFolder,
			Format:      exportFormat,
			Filter:      exportFilter,
			SavePath:    exportSave,
			Clipboard:   exportClipboard,
		}
		return cli.Run(mgr, opts)
	},
}

// Flags for list
var (
	listDetails bool
	listExports bool
)

// Flags for export
var (
	exportCollections []string
	exportMethods     []string
	exportFolder      string
	exportFormat      string
	exportFilter      string
	exportSave        string
	exportClipboard   bool
)

func init() {
	listCmd.Flags().BoolVarP(&listDetails, "details", "d", false, "Fetch trees to show endpoint counts")
	listCmd.Flags().BoolVar(&listExports, "exports", false, "Show export history instead")

	exportCmd.Flags().StringArrayVarP(&exportCollections, "collection", "c", []string{}, "Collection id (repeatable; default all)")
	exportCmd.Flags().StringArrayVarP(&exportMethods, "method", "m", []string{}, "Filter by HTTP method (repeatable)")
	exportCmd.Flags().StringVar(&exportFolder, "folder", "", "Restrict to one folder's subtree")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "Output format (text/yaml/json)")
	exportCmd.Flags().StringVar(&exportFilter, "filter", "", "JMESPath filter applied to example response bodies")
	exportCmd.Flags().StringVarP(&exportSave, "save", "s", "", "Save to file ('auto' for a timestamped file in the exports dir)")
	exportCmd.Flags().BoolVarP(&exportClipboard, "clipboard", "y", false, "Also copy the report to the clipboard")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}

// openSession initializes config, opens the local store, and restores the
// session. The returned cleanup closes the store.
func openSession() (*session.Manager, func(), error) {
	if err := config.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	st, err := store.Open(config.DatabasePath)
	if err != nil {
		return nil, nil, err
	}

	mgr, err := session.NewManager(st)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := st.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing store: %v\n", err)
		}
	}
	return mgr, cleanup, nil
}
