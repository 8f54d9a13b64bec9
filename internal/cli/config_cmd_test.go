package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"labscore/internal/grading"
)

func ptr(v float64) *float64 { return &v }

func TestPrintCategory(t *testing.T) {
	gc, err := grading.New([]grading.CategorySpec{
		{Name: "Connectivity", Multiplier: ptr(1.5), Rules: []grading.RuleSpec{
			{Name: "ping", Type: "each", Pattern: "ping from", Points: 2},
		}},
		{Name: "Bonus", Multiplier: ptr(0), Rules: []grading.RuleSpec{
			{Name: "extra", Type: "any", Pattern: "extra", Points: 0.5},
		}},
	})
	if err != nil {
		t.Fatalf("grading.New: %v", err)
	}

	tests := []struct {
		name           string
		category       grading.Category
		expectedOutput []string
		notExpected    []string
	}{
		{
			name:     "visible category",
			category: gc.Categories[0],
			expectedOutput: []string{
				"CATEGORY: Connectivity (x1.5)",
				`ping  each  pattern="ping from"  points=2`,
			},
			notExpected: []string{"[hidden]"},
		},
		{
			name:     "hidden category",
			category: gc.Categories[1],
			expectedOutput: []string{
				"CATEGORY: Bonus (x0) [hidden]",
				`extra  any  pattern="extra"  points=0.5`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printCategory(&buf, tt.category)
			output := buf.String()

			for _, expected := range tt.expectedOutput {
				if !strings.Contains(output, expected) {
					t.Errorf("expected output to contain %q, but it didn't.\nOutput:\n%s", expected, output)
				}
			}
			for _, notExpected := range tt.notExpected {
				if strings.Contains(output, notExpected) {
					t.Errorf("expected output NOT to contain %q, but it did.\nOutput:\n%s", notExpected, output)
				}
			}
		})
	}
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
		configShowQuiet = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "scoring.yaml")
	doc := `categories:
  - name: Connectivity
    rules:
      - name: ping
        type: each
        pattern: ping
        points: 5
      - name: dns
        type: all
        pattern: dns
        points: 2
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("validate", func(t *testing.T) {
		out, err := runRoot(t, "config", "validate", "--config", path)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if !strings.Contains(out, "OK: 1 categories, 2 rules") {
			t.Fatalf("unexpected output %q", out)
		}
	})

	t.Run("show quiet", func(t *testing.T) {
		out, err := runRoot(t, "config", "show", "-q", "--config", path)
		if err != nil {
			t.Fatalf("show: %v", err)
		}
		if out != "Connectivity/ping\nConnectivity/dns\n" {
			t.Fatalf("unexpected output %q", out)
		}
	})

	t.Run("config from environment", func(t *testing.T) {
		t.Setenv("LABSCORE_CONFIG", path)
		out, err := runRoot(t, "config", "show")
		if err != nil {
			t.Fatalf("show: %v", err)
		}
		if !strings.Contains(out, "CATEGORY: Connectivity (x1)") {
			t.Fatalf("unexpected output %q", out)
		}
	})

	t.Run("invalid configuration", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(bad, []byte(`{"categories": [{"name": "c", "rules": [{"name": "r", "type": "most", "pattern": "x", "points": 1}]}]}`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := runRoot(t, "config", "validate", "--config", bad); err == nil {
			t.Fatal("expected error for unknown rule type")
		}
	})
}
