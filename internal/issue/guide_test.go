// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestEveryKindHasGuide(t *testing.T) {
	for _, k := range Kinds() {
		g := GuideFor(k)
		if g == nil {
			t.Errorf("GuideFor(%q) = nil", k)
			continue
		}
		if g.Kind() != k {
			t.Errorf("GuideFor(%q).Kind() = %q", k, g.Kind())
		}
		if strings.TrimSpace(string(g.MarkdownMsg())) == "" {
			t.Errorf("guide for %q has no content", k)
		}
	}
	if got, want := len(Guides()), len(Kinds()); got != want {
		t.Errorf("len(Guides()) = %d, want %d", got, want)
	}
}

func TestGuide_ExtLinksIsClone(t *testing.T) {
	g := GuideFor(KindParse)
	links := g.ExtLinks()
	if len(links) == 0 {
		t.Fatal("parse guide has no links")
	}
	links[0] = "changed"
	if g.ExtLinks()[0] == "changed" {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestGuide_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, _ string) (string, error) {
		return in, nil
	}

	rendered, err := GuideFor(KindParse).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	for _, want := range []string{"root configuration is invalid", "## See also", "<https://kdl.dev>"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() output missing %q", want)
		}
	}

	rendered, err = GuideFor(KindInterrupted).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() added a links section to a guide without links")
	}
}

func TestAllGuidesAreRenderable(t *testing.T) {
	for _, g := range Guides() {
		out, err := g.Render("notty")
		if err != nil {
			t.Errorf("Render(%q) error: %v", g.Kind(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("Render(%q) returned empty output", g.Kind())
		}
	}
}
