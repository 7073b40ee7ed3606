package validation

import (
	"strings"
	"testing"
)

func FuzzValidateURL(f *testing.F) {
	for _, seed := range []string{"http://localhost:8080", "https://example.com", "javascript:alert(1)", "http://x;id"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		if ValidateURL(raw) != nil {
			return
		}
		for _, char := range shellMeta {
			if strings.Contains(raw, char) {
				t.Fatalf("accepted %q containing %q", raw, char)
			}
		}
		lower := strings.ToLower(raw)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			t.Fatalf("accepted non-http URL %q", raw)
		}
	})
}

func FuzzValidateFileName(f *testing.F) {
	for _, seed := range []string{"index.html", "../x", "a/b", `a\b`} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, name string) {
		if ValidateFileName(name) != nil {
			return
		}
		if strings.ContainsAny(name, `/\`) || name == ".." {
			t.Fatalf("accepted path %q", name)
		}
	})
}
