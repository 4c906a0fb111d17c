package recagent

import "testing"

func TestClassifyChromelessPaths(t *testing.T) {
	paths := []string{
		"/login",
		"/register",
		"/forgot-password",
		"/reset-password",
		"/reset-password/tok-abc123",
		"/verify-email",
		"/verify-email?token=abc",
	}

	for _, path := range paths {
		got := Classify(path)
		if got.NeedsChrome {
			t.Fatalf("Classify(%q).NeedsChrome = true, want false", path)
		}
		if got.ActiveSection != SectionNone {
			t.Fatalf("Classify(%q).ActiveSection = %v, want SectionNone", path, got.ActiveSection)
		}
	}
}

func TestClassifySections(t *testing.T) {
	cases := []struct {
		path    string
		section Section
	}{
		{"/", SectionHome},
		{"", SectionHome},
		{"/search", SectionSearch},
		{"/search/papers?q=transformers", SectionSearch},
		{"/library", SectionLibrary},
		{"/history", SectionHistory},
		{"/settings", SectionSettings},
		{"/settings/account", SectionSettings},
		{"/profile", SectionProfile},
		{"/no-such-page", SectionHome},
		{"/about", SectionHome},
	}

	for _, tc := range cases {
		got := Classify(tc.path)
		if !got.NeedsChrome {
			t.Fatalf("Classify(%q).NeedsChrome = false, want true", tc.path)
		}
		if got.ActiveSection != tc.section {
			t.Fatalf("Classify(%q).ActiveSection = %v, want %v", tc.path, got.ActiveSection, tc.section)
		}
	}
}

func TestClassifyIsPure(t *testing.T) {
	first := Classify("/settings")
	second := Classify("/settings")
	if first != second {
		t.Fatalf("Classify not referentially transparent: %+v vs %+v", first, second)
	}
}
