package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "post.md", File("post.md")},
		{"Slug", KeySlug, "my-post", Slug("my-post")},
		{"Dir", KeyDir, "./docs", Dir("./docs")},
		{"Output", KeyOutput, "./site", Output("./site")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"Op", KeyOp, "CREATE", Op("CREATE")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.attr.Key != tc.attrKey {
				t.Fatalf("key mismatch: got %q want %q", tc.attr.Key, tc.attrKey)
			}
			if tc.attr.Value.String() != tc.attrVal {
				t.Fatalf("value mismatch: got %q want %q", tc.attr.Value.String(), tc.attrVal)
			}
		})
	}
}

func TestErrorHelper(t *testing.T) {
	attr := Error(errors.New("boom"))
	if attr.Key != KeyError || attr.Value.String() != "boom" {
		t.Fatalf("unexpected attr: %v", attr)
	}
	if Error(nil).Value.String() != "" {
		t.Fatalf("nil error should render empty string")
	}
}
