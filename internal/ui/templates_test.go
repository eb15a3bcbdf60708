package ui

import "testing"

func TestTemplatesEmbedded(t *testing.T) {
	names := []string{
		"base.html",
		"calendar.html",
	}
	for _, name := range names {
		if _, err := templateFS.Open("templates/" + name); err != nil {
			t.Fatalf("expected embedded template %s, got error: %v", name, err)
		}
	}
}

func TestTemplateSetsExcludeBase(t *testing.T) {
	if _, ok := templates["base.html"]; ok {
		t.Fatal("base.html should only be parsed as a layout")
	}
	set, ok := templates["calendar.html"]
	if !ok {
		t.Fatal("missing calendar.html template set")
	}
	if set.Lookup("content") == nil {
		t.Error("calendar.html should define the content block")
	}
}
