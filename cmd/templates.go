package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/pagebuilder/internal/catalog"
	"github.com/conneroisu/pagebuilder/internal/element"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"t", "list"},
	Short:   "List the built-in page templates",
	Long: `List the built-in page templates and, optionally, the elements each one
starts with.

Examples:
  pagebuilder templates                        # Table of templates
  pagebuilder templates --with-elements        # Include each template's elements
  pagebuilder templates -f yaml --with-elements`,
	RunE: runTemplates,
}

var (
	templatesFormat       string
	templatesWithElements bool
)

func init() {
	rootCmd.AddCommand(templatesCmd)

	templatesCmd.Flags().StringVarP(&templatesFormat, "format", "f", "table", "Output format (table, json, yaml)")
	templatesCmd.Flags().BoolVarP(&templatesWithElements, "with-elements", "e", false, "Include template elements")

	AddFlagValidation(templatesCmd.Flags(), "format", ValidateFormat("table", "json", "yaml"))
}

type templateListing struct {
	Key      string         `json:"key" yaml:"key"`
	Name     string         `json:"name" yaml:"name"`
	Count    int            `json:"element_count" yaml:"element_count"`
	Elements []element.Wire `json:"elements,omitempty" yaml:"elements,omitempty"`
}

func runTemplates(cmd *cobra.Command, args []string) error {
	all := catalog.All()
	listings := make([]templateListing, len(all))
	for i, t := range all {
		listings[i] = templateListing{Key: t.Key, Name: t.Name, Count: len(t.Elements)}
		if templatesWithElements {
			listings[i].Elements = element.ToWireList(t.Elements)
		}
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(templatesFormat) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listings)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(listings)
	default:
		return outputTemplateTable(out, listings)
	}
}

func outputTemplateTable(out io.Writer, listings []templateListing) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tELEMENTS")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\t%d\n", l.Key, l.Name, l.Count)
		for _, e := range l.Elements {
			fmt.Fprintf(w, "\t  %s\t%s\n", e.Type, headline(e))
		}
	}
	return w.Flush()
}

func headline(w element.Wire) string {
	if w.Text != "" {
		return w.Text
	}
	return w.Title
}
