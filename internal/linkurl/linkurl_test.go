package linkurl

import "testing"

func TestStandardize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trailing slash removed", in: "http://a.com/x/", want: "http://a.com/x"},
		{name: "already canonical", in: "http://a.com/x", want: "http://a.com/x"},
		{name: "ampersand suffix dropped", in: "http://a.com/x&y=1", want: "http://a.com/x"},
		{name: "query kept", in: "http://a.com/x?id=1&page=2", want: "http://a.com/x?id=1"},
		{name: "fragment kept", in: "http://a.com/x#top", want: "http://a.com/x#top"},
		{name: "only one slash removed", in: "http://a.com/x//", want: "http://a.com/x/"},
		{name: "short string unchanged", in: "a/", want: "a/"},
		{name: "leading ampersand kept", in: "&abcdef", want: "&abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Standardize(tt.in); got != tt.want {
				t.Errorf("Standardize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStandardizeIsIdempotentOnCanonicalForms(t *testing.T) {
	t.Parallel()

	a := Standardize("http://a.com/x/")
	b := Standardize("http://a.com/x")
	if a != b || a != "http://a.com/x" {
		t.Errorf("expected both forms to standardize to http://a.com/x, got %q and %q", a, b)
	}
}

func TestRootOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "https://www.example.com/a/b?c", want: "https://www.example.com"},
		{in: "http://example.com", want: "http://example.com"},
		{in: "http://example.com?x=1", want: "http://example.com"},
		{in: "http://127.0.0.1:8080/robots.txt", want: "http://127.0.0.1:8080"},
	}

	for _, tt := range tests {
		if got := RootOf(tt.in); got != tt.want {
			t.Errorf("RootOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMainDomainOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "http://www.example.co.uk", want: "example.co.uk"},
		{in: "http://sub.example.com", want: "example.com"},
		{in: "http://example.com", want: "example.com"},
		{in: "https://a.b.timber.org", want: "timber.org"},
		{in: "http://localhost", want: ""},
	}

	for _, tt := range tests {
		if got := MainDomainOf(tt.in); got != tt.want {
			t.Errorf("MainDomainOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassification(t *testing.T) {
	t.Parallel()

	t.Run("resources", func(t *testing.T) {
		t.Parallel()
		for _, u := range []string{
			"http://a.com/spec.pdf", "http://a.com/SPEC.PDF", "http://a.com/t.docx", "http://a.com/b.xls", "http://a.com/a.zip",
		} {
			if !IsResource(u) {
				t.Errorf("IsResource(%q) = false, want true", u)
			}
		}
		for _, u := range []string{"http://a.com/page.html", "http://a.com", "http://a.com/pdf"} {
			if IsResource(u) {
				t.Errorf("IsResource(%q) = true, want false", u)
			}
		}
	})

	t.Run("multimedia", func(t *testing.T) {
		t.Parallel()
		for _, u := range []string{"http://a.com/p.JPG", "http://a.com/setup.exe", "http://a.com/run.com"} {
			if !IsMultimedia(u) {
				t.Errorf("IsMultimedia(%q) = false, want true", u)
			}
		}
		for _, u := range []string{"http://www.example.com", "http://a.com/index.html"} {
			if IsMultimedia(u) {
				t.Errorf("IsMultimedia(%q) = true, want false", u)
			}
		}
	})

	t.Run("mail", func(t *testing.T) {
		t.Parallel()
		if !IsMailto("mailto:sales@a.com") || !IsMailto("MAILTO:x") || !IsMailto("http://a.com/u@b") {
			t.Error("expected mail links to be detected")
		}
		if IsMailto("http://a.com/contact") {
			t.Error("plain link detected as mail")
		}
	})
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "http://a.com/docs/glulam.pdf", want: "glulam.pdf"},
		{in: "http://a.com/docs/glulam.pdf?v=2", want: "glulam.pdf"},
		{in: "http://a.com", want: "a.com"},
		{in: "", want: "resource"},
	}

	for _, tt := range tests {
		if got := FileName(tt.in); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
