package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractText(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file    string
		content string
	}{
		{"po.txt", "PURCHASE ORDER\nPO Number: 1001\nQuantity: 5"},
		{"items.csv", "Item No,Description,Quantity\n1,Widget,5\n"},
		{"NOTES.MD", "# Order\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			doc, err := Extract(path)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if doc.Text != tt.content {
				t.Errorf("Text = %q, want %q", doc.Text, tt.content)
			}
			if doc.SourceName != tt.file {
				t.Errorf("SourceName = %q, want %q", doc.SourceName, tt.file)
			}
		})
	}
}

func TestExtractErrors(t *testing.T) {
	dir := t.TempDir()

	docx := filepath.Join(dir, "po.docx")
	if err := os.WriteFile(docx, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Extract(docx); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("Extract(.docx) error = %v, want unsupported", err)
	}

	if _, err := Extract(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Extract(missing) expected error")
	}

	if _, err := Extract(dir); err == nil {
		t.Error("Extract(dir) expected error")
	}

	bad := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(bad, []byte("not a pdf"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Extract(bad); err == nil {
		t.Error("Extract(broken.pdf) expected error")
	}
}

func TestSupported(t *testing.T) {
	for path, want := range map[string]bool{
		"a.pdf":  true,
		"a.PDF":  true,
		"a.txt":  true,
		"a.csv":  true,
		"a.docx": false,
		"noext":  false,
	} {
		if got := Supported(path); got != want {
			t.Errorf("Supported(%q) = %v, want %v", path, got, want)
		}
	}
}
