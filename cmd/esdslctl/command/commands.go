package command

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	esdsl "github.com/kailas-cloud/esdsl/pkg/sdk"
)

func (cl *commandline) mappings(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:     "mappings",
		Short:   "List declared document types",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"name", "doc_type", "extends", "fields"})
			table.SetAutoFormatHeaders(false)
			for _, t := range cl.client.DocTypes() {
				parent := ""
				if p := t.Parent(); p != nil {
					parent = p.Name()
				}
				table.Append([]string{
					t.Name(),
					t.DocType(),
					parent,
					strings.Join(t.Mapping().Properties().Names(), ","),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.AddCommand(ccmd)
}

func (cl *commandline) mapping(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:   "mapping NAME",
		Short: "Print the mapping of a document type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cl.client.Mapping(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
	cmd.AddCommand(ccmd)
}

func (cl *commandline) document(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:   "document NAME JSON",
		Short: "Build a document of a type from a JSON source and print it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source map[string]any
			if err := json.Unmarshal([]byte(args[1]), &source); err != nil {
				return fmt.Errorf("decode source: %w", err)
			}
			doc, err := cl.client.NewDocument(args[0], source)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc.ToDict())
		},
	}
	cmd.AddCommand(ccmd)
}

func (cl *commandline) kinds(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the query kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, k := range cl.client.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
	cmd.AddCommand(ccmd)
}

func (cl *commandline) compile(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:     "compile JSON",
		Short:   "Normalize a wire-format query",
		Aliases: []string{"q"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := cl.client.CompileJSON(cmd.Context(), []byte(args[0]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), q)
		},
	}
	cmd.AddCommand(ccmd)
}

func (cl *commandline) combine(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:   "combine add|and|or|not LEFT [RIGHT]",
		Short: "Combine wire-format queries with the query algebra",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := esdsl.Op(args[0])
			if op != esdsl.OpNot && len(args) != 3 {
				return fmt.Errorf("%s needs two operands", op)
			}

			operands := make([]map[string]any, 2)
			for i, raw := range args[1:] {
				if err := json.Unmarshal([]byte(raw), &operands[i]); err != nil {
					return fmt.Errorf("decode operand %d: %w", i+1, err)
				}
			}

			q, err := cl.client.Combine(cmd.Context(), op, operands[0], operands[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), q)
		},
	}
	cmd.AddCommand(ccmd)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
