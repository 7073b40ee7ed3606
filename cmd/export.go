package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/pagebuilder/internal/catalog"
	"github.com/conneroisu/pagebuilder/internal/element"
	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
	"github.com/conneroisu/pagebuilder/internal/generator"
	"github.com/conneroisu/pagebuilder/internal/logging"
	"github.com/conneroisu/pagebuilder/internal/watcher"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Write a page to a standalone HTML file",
	Long: `Generate a standalone HTML document from a built-in template or from an
element list saved as JSON or YAML, and write it to disk.

Examples:
  pagebuilder export --template portfolio
  pagebuilder export --template blog --output site/blog.html --title "My Blog"
  pagebuilder export --input page.json
  pagebuilder export --input page.yaml --watch   # Re-export on every save`,
	RunE: runExport,
}

var (
	exportTemplate string
	exportInput    string
	exportOutput   string
	exportTitle    string
	exportWatch    bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template to export (default editor.default_template)")
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "Element list to export (.json, .yml or .yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default export.file_name)")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "Page title (default export.title)")
	exportCmd.Flags().BoolVarP(&exportWatch, "watch", "w", false, "Re-export whenever the input file changes")

	exportCmd.MarkFlagsMutuallyExclusive("template", "input")
	exportCmd.MarkFlagsMutuallyExclusive("template", "watch")
	AddFlagValidation(exportCmd.Flags(), "template", ValidateTemplate)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportWatch && exportInput == "" {
		return builderrors.NewValidationError(builderrors.ErrCodeInvalidRequest, "--watch requires --input")
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	job := exportJob{
		template: exportTemplate,
		input:    exportInput,
		output:   exportOutput,
		title:    exportTitle,
	}
	if job.template == "" {
		job.template = cfg.Editor.DefaultTemplate
	}
	if job.output == "" {
		job.output = cfg.Export.FileName
	}
	if job.title == "" {
		job.title = cfg.Export.Title
	}

	if err := job.run(ctx, cmd, logger); err != nil {
		return err
	}
	if !exportWatch {
		return nil
	}
	return watchExport(ctx, cmd, job, logger)
}

type exportJob struct {
	template string
	input    string
	output   string
	title    string
}

func (j exportJob) source() string {
	if j.input != "" {
		return j.input
	}
	return j.template
}

func (j exportJob) elements(ctx context.Context, logger logging.Logger) ([]element.Element, error) {
	if j.input != "" {
		return readElements(ctx, j.input, logger)
	}
	tmpl, ok := catalog.Lookup(j.template)
	if !ok {
		return nil, builderrors.ErrTemplateNotFound(j.template)
	}
	return tmpl.Drafts(), nil
}

func (j exportJob) run(ctx context.Context, cmd *cobra.Command, logger *logging.BuilderLogger) error {
	elements, err := j.elements(ctx, logger)
	if err != nil {
		return err
	}

	op := logger.StartOperation("export")
	html := generator.Generate(elements, generator.Options{
		Title: j.title,
		OnSkip: func(e element.Element) {
			logger.Warn(ctx, nil, "Skipping element of unknown kind", "kind", e.Kind().String())
		},
	})

	if dir := filepath.Dir(j.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			op.EndWithError(ctx, err)
			return builderrors.NewIOError(builderrors.ErrCodeExportFailed, "create output directory", err)
		}
	}
	if err := os.WriteFile(j.output, []byte(html), 0o644); err != nil {
		op.EndWithError(ctx, err)
		return builderrors.NewIOError(builderrors.ErrCodeExportFailed, "write "+j.output, err)
	}
	op.End(ctx, "source", j.source(), "output", j.output, "bytes", len(html))

	blocks, err := generator.Outline(html)
	if err != nil {
		return err
	}
	return printExportSummary(cmd, j.output, len(html), blocks)
}

// watchExport re-runs job on every change to its input until interrupted.
// A failed re-export is logged and the previous output is left in place.
func watchExport(ctx context.Context, cmd *cobra.Command, job exportJob, logger *logging.BuilderLogger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(watcher.DefaultDelay, logger)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(job.input); err != nil {
		return err
	}

	logger.Info(ctx, "Watching for changes", "input", job.input)
	err = w.Run(ctx, func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, ev := range events {
			if ev.Type == watcher.EventTypeDeleted {
				logger.Warn(ctx, nil, "Input removed, waiting for it to return", "input", ev.Path)
				return nil
			}
		}
		return job.run(ctx, cmd, logger)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readElements decodes a saved element list. Entries of unknown kinds are
// kept and reported as warnings.
func readElements(ctx context.Context, path string, logger logging.Logger) ([]element.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, builderrors.NewIOError(builderrors.ErrCodeExportFailed, "read "+path, err)
	}

	var wires []element.Wire
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &wires)
	default:
		err = json.Unmarshal(data, &wires)
	}
	if err != nil {
		return nil, builderrors.NewValidationError(builderrors.ErrCodeInvalidRequest, "decode "+path).WithCause(err)
	}

	elements, warnings := element.FromWireList(wires)
	handler := builderrors.NewErrorHandler(logger)
	for _, w := range warnings {
		handler.Handle(ctx, w)
	}
	return elements, nil
}

func printExportSummary(cmd *cobra.Command, output string, size int, blocks []generator.OutlineBlock) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s (%d blocks, %d bytes)\n", output, len(blocks), size)
	if len(blocks) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tKIND\tHEADING\tBACKGROUND")
	for i, b := range blocks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, b.Kind, b.Heading, b.Background)
	}
	return w.Flush()
}
