package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/shopkeep/internal/app"
	"github.com/five82/shopkeep/internal/view"
	"github.com/five82/shopkeep/internal/web"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	ConfigPath string
	PrefsPath  string
	EnvFile    string
	Verbose    bool
}

func (o *rootOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: o.ConfigPath,
		PrefsPath:  o.PrefsPath,
		EnvFiles:   []string{o.EnvFile},
		Verbose:    o.Verbose,
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "shopkeep",
		Short:         "Browse and edit a remote product catalog",
		Long:          "shopkeep loads a product catalog from a REST API into a searchable, sortable, paginated table with view, edit and create forms.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/shopkeep/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/shopkeep/prefs.toml)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	return cmd
}

func newServeCommand(root *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog table as HTML",
		Long:  "serve renders the catalog table for browsers. Send SIGHUP to reload the catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Serve(cmd.Context(), app.ServeOptions{
				Options: root.appOptions(),
				Listen:  listen,
			})
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}

// exportFlags are the view parameters accepted by the export command.
type exportFlags struct {
	Out     string
	Search  string
	Sort    string
	Dir     string
	Page    int
	PerPage int
}

func (f exportFlags) query() (web.Query, error) {
	q := web.Query{
		Search:  f.Search,
		Sort:    view.ParseSortKey(f.Sort),
		Dir:     view.ParseDirection(f.Dir),
		Page:    f.Page,
		PerPage: f.PerPage,
	}
	if f.Sort != "" && q.Sort == view.SortNone {
		return web.Query{}, fmt.Errorf("unknown sort column %q", f.Sort)
	}
	if f.PerPage < 0 {
		return web.Query{}, fmt.Errorf("per-page must be positive, got %d", f.PerPage)
	}
	return q, nil
}

func newExportCommand(root *rootOptions) *cobra.Command {
	flags := exportFlags{Out: "-", Page: 1, Dir: "asc"}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one page of the catalog as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			q, err := flags.query()
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if flags.Out != "-" {
				f, createErr := os.Create(flags.Out)
				if createErr != nil {
					return fmt.Errorf("create %s: %w", flags.Out, createErr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				out = f
			}

			return app.Export(cmd.Context(), app.ExportOptions{
				Options: root.appOptions(),
				Query:   q,
				Out:     out,
			})
		},
	}
	cmd.Flags().StringVarP(&flags.Out, "out", "o", flags.Out, `output file, "-" for stdout`)
	cmd.Flags().StringVarP(&flags.Search, "search", "q", "", "search text")
	cmd.Flags().StringVar(&flags.Sort, "sort", "", "sort column (id|title|price|category)")
	cmd.Flags().StringVar(&flags.Dir, "dir", flags.Dir, "sort direction (asc|desc)")
	cmd.Flags().IntVar(&flags.Page, "page", flags.Page, "page number")
	cmd.Flags().IntVar(&flags.PerPage, "per-page", 0, "rows per page (default from config)")
	return cmd
}
