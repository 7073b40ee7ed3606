package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/pagebuilder/internal/generator"
)

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

// executeContext runs the root command under ctx.
func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	setContext(rootCmd, ctx)
	t.Setenv("PAGEBUILDER_CONFIG_FILE", "")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

// Cobra only hands the root context to subcommands whose own context is
// nil, so a context from an earlier run would otherwise stick.
func setContext(c *cobra.Command, ctx context.Context) {
	c.SetContext(ctx)
	for _, sub := range c.Commands() {
		setContext(sub, ctx)
	}
}

// Cobra keeps flag values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestExportTemplate(t *testing.T) {
	output := filepath.Join(t.TempDir(), "site", "portfolio.html")

	stdout, err := execute(t, "export", "--template", "portfolio", "--output", output, "--title", "Jane's Work")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+output)
	assert.Contains(t, stdout, "KIND")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Jane&#39;s Work</title>")

	blocks, err := generator.Outline(html)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "header", blocks[0].Kind.String())
	assert.Equal(t, "section", blocks[2].Kind.String())
}

func TestExportInput(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		input := filepath.Join(dir, "page.json")
		require.NoError(t, os.WriteFile(input, []byte(`[
			{"type": "header", "text": "Hello"},
			{"type": "carousel"},
			{"type": "section", "title": "About", "content": "Me & you"}
		]`), 0o644))
		output := filepath.Join(dir, "json.html")

		stdout, err := execute(t, "export", "--input", input, "--output", output)
		require.NoError(t, err)
		assert.Contains(t, stdout, "2 blocks")

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "<h1>Hello</h1>")
		assert.Contains(t, string(data), "Me &amp; you")
		assert.NotContains(t, string(data), "carousel")
	})

	t.Run("yaml", func(t *testing.T) {
		input := filepath.Join(dir, "page.yaml")
		require.NoError(t, os.WriteFile(input, []byte(
			"- type: hero\n  text: Welcome\n  description: Hi there\n  bgColor: \"#000000\"\n"), 0o644))
		output := filepath.Join(dir, "yaml.html")

		_, err := execute(t, "export", "-i", input, "-o", output)
		require.NoError(t, err)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "<h2>Welcome</h2>")
		assert.Contains(t, string(data), "background-color: #000000;")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "export", "--input", filepath.Join(dir, "nope.json"), "--output", filepath.Join(dir, "x.html"))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		input := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(input, []byte(`{not json`), 0o644))
		_, err := execute(t, "export", "--input", input, "--output", filepath.Join(dir, "bad.html"))
		assert.Error(t, err)
	})
}

func TestExportFlagValidation(t *testing.T) {
	_, err := execute(t, "export", "--template", "gallery")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")

	_, err = execute(t, "export", "--template", "blog", "--input", "page.json")
	require.Error(t, err)
}

func TestExportWatch(t *testing.T) {
	t.Run("requires input", func(t *testing.T) {
		_, err := execute(t, "export", "--watch", "--output", filepath.Join(t.TempDir(), "x.html"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--input")
	})

	t.Run("re-exports on change", func(t *testing.T) {
		dir := t.TempDir()
		input := filepath.Join(dir, "page.json")
		output := filepath.Join(dir, "index.html")
		require.NoError(t, os.WriteFile(input, []byte(`[{"type":"header","text":"First"}]`), 0o644))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() {
			_, err := executeContext(t, ctx, "export", "--input", input, "--output", output, "--watch")
			done <- err
		}()

		// The watcher may not be registered yet, so keep saving until the
		// new text shows up.
		require.Eventually(t, func() bool {
			_ = os.WriteFile(input, []byte(`[{"type":"header","text":"Second"}]`), 0o644)
			data, err := os.ReadFile(output)
			return err == nil && strings.Contains(string(data), "<h1>Second</h1>")
		}, 5*time.Second, 150*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watch did not stop")
		}
	})
}

func TestTemplatesCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		stdout, err := execute(t, "templates")
		require.NoError(t, err)
		assert.Contains(t, stdout, "KEY")
		for _, key := range []string{"blank", "portfolio", "business", "blog"} {
			assert.Contains(t, stdout, key)
		}
	})

	t.Run("json with elements", func(t *testing.T) {
		stdout, err := execute(t, "templates", "--format", "json", "--with-elements")
		require.NoError(t, err)

		var listings []templateListing
		require.NoError(t, json.Unmarshal([]byte(stdout), &listings))
		require.Len(t, listings, 4)
		assert.Equal(t, "blank", listings[0].Key)
		assert.Zero(t, listings[0].Count)

		portfolio := listings[1]
		assert.Equal(t, "portfolio", portfolio.Key)
		assert.Equal(t, 3, portfolio.Count)
		require.Len(t, portfolio.Elements, 3)
		assert.Equal(t, "header", portfolio.Elements[0].Type)
		assert.Empty(t, portfolio.Elements[0].ID)
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, err := execute(t, "templates", "-f", "yaml")
		require.NoError(t, err)

		var listings []templateListing
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &listings))
		require.Len(t, listings, 4)
		assert.Equal(t, "Business", listings[2].Name)
		assert.Empty(t, listings[2].Elements)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := execute(t, "templates", "--format", "xml")
		assert.Error(t, err)
	})
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "pagebuilder "))
	assert.Contains(t, stdout, "Go: ")

	stdout, err = execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "platform")

	stdout, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Platform")
}

func TestFlagValidators(t *testing.T) {
	assert.NoError(t, ValidatePort("0"))
	assert.NoError(t, ValidatePort("65535"))
	assert.Error(t, ValidatePort("65536"))
	assert.Error(t, ValidatePort("http"))

	assert.NoError(t, ValidateMode("preview"))
	assert.Error(t, ValidateMode("draft"))

	assert.NoError(t, ValidateTemplate("blog"))
	assert.NoError(t, ValidateTemplate(""))
	assert.Error(t, ValidateTemplate("landing"))

	formats := ValidateFormat("text", "json")
	assert.NoError(t, formats("JSON"))
	assert.Error(t, formats("xml"))
}

func TestServeRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "serve", "--port", "70000")
	assert.Error(t, err)

	_, err = execute(t, "serve", "--mode", "draft")
	assert.Error(t, err)
}
