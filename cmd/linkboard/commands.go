package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/linkboard/internal/app"
	"github.com/vadimbarashkov/linkboard/internal/collection"
	"github.com/vadimbarashkov/linkboard/internal/models"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the metadata service (GET /api/metadata?url=...)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Serve(cmd.Context(), c.cfg, c.logger)
		},
	}
}

func newAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Resolve the title of a URL and append it to the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(m *collection.Manager) error {
				link, err := m.AddLink(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				printLink(cmd, link, true)
				printAddress(cmd, m)

				return nil
			})
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the collection; the selected link is marked with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd, func(m *collection.Manager) error {
				selected, _ := m.Selected()

				for _, link := range m.Links() {
					printLink(cmd, link, link.ID == selected.ID)
				}

				return nil
			})
		},
	}
}

func newDuplicateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Append a copy of a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(m *collection.Manager) error {
				link, err := m.DuplicateLink(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				printLink(cmd, link, true)
				printAddress(cmd, m)

				return nil
			})
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a link from the collection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(m *collection.Manager) error {
				if err := m.DeleteLink(cmd.Context(), args[0]); err != nil {
					return err
				}

				if selected, ok := m.Selected(); ok {
					printLink(cmd, selected, true)
				}
				printAddress(cmd, m)

				return nil
			})
		},
	}
}

func newSelectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Show a link in the preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(m *collection.Manager) error {
				link, err := m.SelectLink(args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, link.Title)
				fmt.Fprintln(out, link.URL)

				return nil
			})
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the collection as \"<title>: <url>\" lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd, func(m *collection.Manager) error {
				if text := m.ExportAsText(); text != "" {
					fmt.Fprintln(cmd.OutOrStdout(), text)
				}

				return nil
			})
		},
	}
}

func newShareCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "share",
		Short: "Print the shareable address of the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd, func(m *collection.Manager) error {
				addr, err := m.ShareableAddress()
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), addr)

				return nil
			})
		},
	}
}

func printLink(cmd *cobra.Command, link models.Link, selected bool) {
	marker := " "
	if selected {
		marker = "*"
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  %s\n", marker, link.ID, link.Title, link.URL)
}
