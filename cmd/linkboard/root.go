package main

import (
	"fmt"
	"os"

	"github.com/go-chi/httplog/v2"
	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/linkboard/internal/app"
	"github.com/vadimbarashkov/linkboard/internal/collection"
	"github.com/vadimbarashkov/linkboard/internal/config"
)

// cli carries the state shared by every subcommand.
type cli struct {
	configPath string
	address    string

	cfg    *config.Config
	logger *httplog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "linkboard",
		Short: "Collect links, resolve their titles and share the collection",
		Long: `linkboard keeps an ordered collection of links with human-readable titles.

The collection is persisted after every change and can be shared as a page
address carrying the whole collection in its "links" query parameter.
Titles are resolved by the metadata service started with "linkboard serve".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Path to the YAML config file (or set CONFIG_PATH env)")
	rootCmd.PersistentFlags().StringVarP(&c.address, "address", "a", "", "Page address to open; its links parameter takes precedence over the store")

	rootCmd.AddCommand(
		newServeCmd(c),
		newAddCmd(c),
		newListCmd(c),
		newDuplicateCmd(c),
		newDeleteCmd(c),
		newSelectCmd(c),
		newExportCmd(c),
		newShareCmd(c),
	)

	return rootCmd
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg := config.Default()

	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	c.cfg = cfg
	c.logger = app.NewLogger(cfg, cmd.ErrOrStderr())

	return nil
}

// withSession opens a session, runs fn and closes the store.
func (c *cli) withSession(cmd *cobra.Command, fn func(m *collection.Manager) error) error {
	m, closeStore, err := app.OpenSession(cmd.Context(), c.cfg, c.logger.Logger, c.address)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(m)
}

func printAddress(cmd *cobra.Command, m *collection.Manager) {
	fmt.Fprintf(cmd.ErrOrStderr(), "address: %s\n", m.Address())
}
