package catalog

import (
	"strings"
	"testing"

	"github.com/attestia/assurance-backend/model"
)

func TestLoadPicksHighestVersion(t *testing.T) {
	lib, err := Load("testdata/valid")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cat, ok := lib.Get(model.FrameworkSWIFTCSP)
	if !ok {
		t.Fatal("SWIFT_CSP catalog not loaded")
	}
	if got := cat.Version.String(); got != "1.2.0" {
		t.Fatalf("expected version 1.2.0 to win, got %s", got)
	}
	if len(cat.Questions) != 2 {
		t.Fatalf("expected the 1.2.0 question set, got %d questions", len(cat.Questions))
	}
}

func TestLoadMultipleFrameworks(t *testing.T) {
	lib, err := Load("testdata/valid")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	frameworks := lib.Frameworks()
	if len(frameworks) != 2 {
		t.Fatalf("expected 2 frameworks, got %v", frameworks)
	}
	if frameworks[0] != model.FrameworkSWIFTCSP || frameworks[1] != model.FrameworkSOC2 {
		t.Fatalf("unexpected framework order: %v", frameworks)
	}
}

func TestLoadRejectsInvalidVersion(t *testing.T) {
	_, err := Load("testdata/badversion")
	if err == nil {
		t.Fatal("expected error for invalid semver")
	}
	if !strings.Contains(err.Error(), "swift.yaml") {
		t.Fatalf("error must name the offending file: %v", err)
	}
}

func TestLoadRejectsUnknownFramework(t *testing.T) {
	if _, err := Load("testdata/badframework"); err == nil {
		t.Fatal("expected error for unknown framework")
	}
}

func TestLoadRejectsDuplicateQuestionIDs(t *testing.T) {
	if _, err := Load("testdata/dupquestion"); err == nil {
		t.Fatal("expected error for duplicate question ids")
	}
}

func TestMatrixLookup(t *testing.T) {
	lib, err := Load("testdata/valid")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	matrix := lib.Matrix(model.FrameworkSWIFTCSP)
	if matrix == nil {
		t.Fatal("matrix missing")
	}

	ctrl := matrix.FindControl("1.1")
	if ctrl == nil {
		t.Fatal("control 1.1 not found")
	}
	if scope := ctrl.Architectures["A4"]; scope.Applicable {
		t.Fatal("control 1.1 must not be applicable for A4")
	}
	if scope := ctrl.Architectures["A1"]; !scope.Applicable || scope.Scope != "Full environment" {
		t.Fatalf("unexpected A1 scope: %+v", scope)
	}
}

func TestControlKeywords(t *testing.T) {
	lib, err := Load("testdata/valid")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	kw := lib.ControlKeywords(model.FrameworkSWIFTCSP)
	if len(kw["1.1"]) == 0 {
		t.Fatal("control 1.1 must expose keywords")
	}
	if lib.ControlKeywords(model.FrameworkPCIDSS) != nil {
		t.Fatal("unloaded framework must yield nil keywords")
	}
}

func TestShippedCatalogAssets(t *testing.T) {
	lib, err := Load("../config/catalogs")
	if err != nil {
		t.Fatalf("shipped catalog assets failed to load: %v", err)
	}
	for _, f := range model.KnownFrameworks() {
		if _, ok := lib.Get(f); !ok {
			t.Errorf("framework %s missing from shipped catalogs", f)
		}
	}

	// Every SWIFT control must cover the full architecture variant set.
	matrix := lib.Matrix(model.FrameworkSWIFTCSP)
	for _, d := range matrix.Domains {
		for _, c := range d.Controls {
			for _, arch := range model.KnownArchitectures() {
				if _, ok := c.Architectures[string(arch)]; !ok {
					t.Errorf("control %s missing architecture entry %s", c.ControlID, arch)
				}
			}
		}
	}
}
