package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aretw0/docstore/pkg/core"
)

func newReadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "read <collection> <id>",
		Short: "Print a document as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.store(true)
			if err != nil {
				return err
			}
			defer m.Close()

			doc, err := m.Collection(args[0]).ReadData(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func newWriteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "write <collection> <id> [json]",
		Short: "Create or replace a document",
		Long:  `Write stores a JSON object under the given id. The object is read from stdin when not passed as an argument.`,
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			if len(args) == 3 {
				raw = []byte(args[2])
			} else {
				var err error
				if raw, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			var doc core.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("document must be a JSON object: %w", err)
			}
			if doc == nil {
				doc = core.Document{}
			}

			m, err := c.store(false)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Collection(args[0]).WriteData(cmd.Context(), args[1], doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Document '%s' written to '%s'.\n", args[1], args[0])
			return nil
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.store(false)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Collection(args[0]).DeleteDocument(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Document deleted: %s/%s\n", args[0], args[1])
			return nil
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [collection]",
		Short: "List collections, or the documents of one collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.store(true)
			if err != nil {
				return err
			}
			defer m.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				var names []string
				for coll := range m.Collections(ctx) {
					names = append(names, coll.Name())
				}
				sort.Strings(names)
				if asJSON {
					return printJSON(out, names)
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			records := map[string]core.Document{}
			var ids []string
			for rec, err := range m.Collection(args[0]).ReadAllDocuments(ctx) {
				if err != nil {
					return err
				}
				records[rec.ID] = rec.Data
				ids = append(ids, rec.ID)
			}
			if asJSON {
				return printJSON(out, records)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
