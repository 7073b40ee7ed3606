// Package validation checks untrusted strings before they reach a shell
// command, a listener address, an origin comparison or the file system.
package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// shellMeta are characters that let a value escape an exec argument or a
// quoted attribute.
var shellMeta = []string{";", "&", "|", "`", "$", "(", ")", "<", ">", "\"", "'", "\\", "\n", "\r"}

func checkShellMeta(what, value string) error {
	for _, char := range shellMeta {
		if strings.Contains(value, char) {
			return fmt.Errorf("%s contains dangerous character %q", what, char)
		}
	}
	return nil
}

// ValidateURL checks a URL handed to the platform's browser opener.
func ValidateURL(rawURL string) error {
	if err := checkShellMeta("URL", rawURL); err != nil {
		return err
	}
	if strings.Contains(rawURL, " ") {
		return fmt.Errorf("URL contains spaces")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme %q (only http/https allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a hostname")
	}
	return nil
}

// ValidateOrigin checks an allow-listed browser origin: scheme and host,
// optionally a port, and nothing else.
func ValidateOrigin(origin string) error {
	if err := ValidateURL(origin); err != nil {
		return err
	}
	parsed, _ := url.Parse(origin)
	if parsed.User != nil || (parsed.Path != "" && parsed.Path != "/") || parsed.RawQuery != "" || parsed.Fragment != "" {
		return fmt.Errorf("origin %q must be scheme://host[:port]", origin)
	}
	return nil
}

// ValidateHost checks a listen host.
func ValidateHost(host string) error {
	if err := checkShellMeta("host", host); err != nil {
		return err
	}
	if strings.ContainsAny(host, " /") {
		return fmt.Errorf("host %q is not a hostname or IP", host)
	}
	return nil
}

// ValidateFileName accepts a bare file name: no directories, no traversal.
func ValidateFileName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%q is not a file name", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("file name %q must not contain path separators", name)
	}
	if strings.ContainsAny(name, "\x00\n\r\"") {
		return fmt.Errorf("file name %q contains a control or quote character", name)
	}
	return nil
}
