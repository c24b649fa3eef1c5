package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	t.Parallel()

	docx := zipBytes(t, map[string]string{
		"word/document.xml": `<?xml version="1.0"?><w:document><w:body><w:p><w:t>Cross</w:t><w:t>laminated</w:t></w:p><w:p><w:t>timber &amp; glulam</w:t></w:p></w:body></w:document>`,
		"word/styles.xml":   `<w:styles><w:name>IgnoredStyle</w:name></w:styles>`,
	})
	xlsx := zipBytes(t, map[string]string{
		"xl/sharedStrings.xml":     `<sst><si><t>Panel price</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<worksheet><c><v>42</v></c></worksheet>`,
	})
	pptx := zipBytes(t, map[string]string{
		"ppt/slides/slide2.xml": `<p:sld><a:t>second slide</a:t></p:sld>`,
		"ppt/slides/slide1.xml": `<p:sld><a:t>first slide</a:t></p:sld>`,
	})
	archive := zipBytes(t, map[string]string{
		"readme.txt": "CLT panels",
		"image.png":  "binary",
		"spec.xml":   "<spec>mass timber</spec>",
	})
	legacy := append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0x01, 0x02}, []byte("Glulam beam\x00\x01ab\x02structural")...)

	tests := []struct {
		name     string
		file     string
		data     []byte
		contains []string
		excludes []string
	}{
		{name: "plain text", file: "a.txt", data: []byte("\xef\xbb\xbfCross  laminated\n\ntimber"), contains: []string{"Cross laminated timber"}},
		{name: "csv", file: "a.csv", data: []byte("product,price\nCLT,100\n"), contains: []string{"CLT,100"}},
		{name: "xml", file: "a.xml", data: []byte("<root><item>Glulam</item><item>beams &amp; posts</item></root>"), contains: []string{"Glulam beams & posts"}},
		{name: "rtf", file: "a.rtf", data: []byte(`{\rtf1\ansi{\fonttbl\f0\fswiss Helvetica;}\f0\pard Mass timber\par}`), contains: []string{"Mass timber"}, excludes: []string{"rtf1", "pard"}},
		{name: "docx", file: "a.docx", data: docx, contains: []string{"Cross laminated", "timber & glulam"}, excludes: []string{"IgnoredStyle"}},
		{name: "xlsx", file: "a.xlsx", data: xlsx, contains: []string{"Panel price", "42"}},
		{name: "pptx keeps slide order", file: "a.pptx", data: pptx, contains: []string{"first slide second slide"}},
		{name: "zip", file: "a.zip", data: archive, contains: []string{"CLT panels", "mass timber"}, excludes: []string{"binary"}},
		{name: "legacy binary", file: "a.doc", data: legacy, contains: []string{"Glulam beam", "structural"}, excludes: []string{"ab "}},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := writeFile(t, tt.file, tt.data)

			got, err := e.Extract(context.Background(), p)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Extract() = %q, want it to contain %q", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Extract() = %q, must not contain %q", got, unwanted)
				}
			}
		})
	}
}

func TestExtractErrors(t *testing.T) {
	t.Parallel()

	e := New()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "none.pdf")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()
		p := writeFile(t, "a.bin", []byte("data"))
		if _, err := e.Extract(context.Background(), p); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Extract() error = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("malformed pdf", func(t *testing.T) {
		t.Parallel()
		p := writeFile(t, "broken.pdf", []byte("%PDF-1.4 not really a pdf"))
		if _, err := e.Extract(context.Background(), p); err == nil {
			t.Error("expected error for malformed PDF")
		}
	})

	t.Run("corrupt office document", func(t *testing.T) {
		t.Parallel()
		p := writeFile(t, "broken.docx", []byte("not a zip"))
		if _, err := e.Extract(context.Background(), p); err == nil {
			t.Error("expected error for corrupt docx")
		}
	})
}

func TestSupported(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"a.PDF", "b.docx", "c.zip", "d.html"} {
		if !Supported(name) {
			t.Errorf("Supported(%q) = false", name)
		}
	}
	for _, name := range []string{"a.png", "b", "c.exe"} {
		if Supported(name) {
			t.Errorf("Supported(%q) = true", name)
		}
	}
}
