package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestPrintVersion(t *testing.T) {
	info := GetVersionInfo("goanalyzer", "1.0.0")

	var text bytes.Buffer
	if err := PrintVersion(&text, info, false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text.String(), "goanalyzer v"+Version+"\n") {
		t.Errorf("text version wrong. got=%q", text.String())
	}
	if !strings.Contains(text.String(), "Report schema: 1.0.0") {
		t.Errorf("schema version missing. got=%q", text.String())
	}

	var js bytes.Buffer
	if err := PrintVersion(&js, info, true); err != nil {
		t.Fatal(err)
	}
	var decoded VersionInfo
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded != *info {
		t.Errorf("JSON round trip wrong. expected=%+v, got=%+v", *info, decoded)
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf, "goanalyzer", []CommandInfo{
		{Name: "analyze", Description: "Analyze source files"},
		{Name: "repl", Description: "Interactive analysis"},
	})
	for _, want := range []string{"USAGE:", "    analyze      Analyze source files", "    repl         Interactive analysis"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage missing %q:\n%s", want, buf.String())
		}
	}
}

func TestValidateArgs(t *testing.T) {
	tests := []struct {
		args      []string
		min       int
		expectErr bool
	}{
		{nil, 1, true},
		{[]string{"a.go"}, 1, false},
		{[]string{"a.go", "b.go"}, 1, false},
		{nil, 0, false},
	}

	for i, tt := range tests {
		err := ValidateArgs(tt.args, tt.min, "goanalyzer analyze file...")
		if (err != nil) != tt.expectErr {
			t.Errorf("tests[%d] - error wrong. expected=%t, got=%v", i, tt.expectErr, err)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if ColorEnabled(f) {
		t.Errorf("regular file should not enable colors")
	}
	if ColorEnabled(nil) {
		t.Errorf("nil file should not enable colors")
	}

	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(os.Stdout) {
		t.Errorf("NO_COLOR should disable colors")
	}
}
