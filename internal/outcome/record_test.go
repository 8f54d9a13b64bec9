package outcome

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Record
	}{
		{
			name: "header",
			input: "Description,Passed,Reason\n" +
				"ping from pc1 to pc2,True,\n" +
				"\"bgp peer r1, r2\",False,session down\n",
			want: []Record{
				{Description: "ping from pc1 to pc2", Passed: true},
				{Description: "bgp peer r1, r2", Passed: false, Reason: "session down"},
			},
		},
		{
			name:  "reordered header",
			input: "reason,description,passed\nnone,dns lookup,yes\n",
			want:  []Record{{Description: "dns lookup", Passed: true, Reason: "none"}},
		},
		{
			name:  "no header",
			input: "ping a,1,ok\n\nping b,0\n",
			want: []Record{
				{Description: "ping a", Passed: true, Reason: "ok"},
				{Description: "ping b", Passed: false},
			},
		},
		{
			name:  "blank rows before header",
			input: ",,\n\nDescription,Passed,Reason\nping a,True,\n",
			want:  []Record{{Description: "ping a", Passed: true}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadCSV() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ReadCSV() mismatch:\n got %#v\nwant %#v", got, tt.want)
			}
		})
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "bad boolean", input: "description,passed\nping,maybe\n", wantMsg: `line 2: invalid passed value "maybe"`},
		{name: "short row", input: "ping\n", wantMsg: "line 1: expected at least 2 columns"},
		{
			name:    "multi-line reason",
			input:   "Description,Passed,Reason\nping a,False,\"timeout\nafter 3 tries\"\nping b,maybe,\n",
			wantMsg: `line 4: invalid passed value "maybe"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadCSV_ResultsPath(t *testing.T) {
	labDir := filepath.Join(t.TempDir(), "lab1")
	if err := os.MkdirAll(labDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := ResultsPath(labDir)
	if filepath.Base(path) != "lab1_result_all.csv" {
		t.Fatalf("unexpected results path %s", path)
	}
	if err := os.WriteFile(path, []byte("description,passed,reason\nping,True,\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(recs) != 1 || !recs[0].Passed {
		t.Fatalf("unexpected records %+v", recs)
	}

	if _, err := LoadCSV(filepath.Join(labDir, "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRecordString(t *testing.T) {
	r := Record{Description: "ping", Passed: false, Reason: "timeout"}
	if got := r.String(); got != `"ping" (failed: timeout)` {
		t.Errorf("String() = %s", got)
	}
	r = Record{Description: "ping", Passed: true}
	if got := r.String(); got != `"ping" (passed)` {
		t.Errorf("String() = %s", got)
	}
}
