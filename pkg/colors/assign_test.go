package colors

import (
	"strings"
	"testing"

	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/groups"
	"github.com/matzehuels/phylotree/pkg/newick"
	"github.com/matzehuels/phylotree/pkg/tree"
)

func resolved(t *testing.T, text string, specs []string) (*tree.Tree, *groups.GroupMap) {
	t.Helper()
	tr, err := newick.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := groups.Resolve(tr, specs, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return tr, res.Groups
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "#ff0000", want: "#FF0000"},
		{in: "#2166AC", want: "#2166AC"},
		{in: " #2166ac ", want: "#2166AC"},
		{in: "red", want: "#FF0000"},
		{in: "Teal", want: "#008080"},
		{in: "GREY", want: "#808080"},
		{in: "#fff", wantErr: true},
		{in: "ff0000", wantErr: true},
		{in: "#GG0000", wantErr: true},
		{in: "notacolor", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidColor) {
				t.Errorf("Normalize(%q) err = %v, want INVALID_COLOR", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssignPaletteDeterministic(t *testing.T) {
	tr, gm := resolved(t, "(A:1,B:2,(C:1,D:1):1);", []string{"Zeta:A", "Alpha:B", "Mid:C"})

	cm, err := Assign(tr, gm, nil)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if cm.LeafLevel() {
		t.Fatal("grouped tree must use group-level colors")
	}

	// Sorted group order is Alpha, Mid, Zeta, Ungrouped; palette is
	// handed out in that order.
	want := map[string]string{
		"Alpha":          PaletteColor(0),
		"Mid":            PaletteColor(1),
		"Zeta":           PaletteColor(2),
		groups.Ungrouped: PaletteColor(3),
	}
	for group, hex := range want {
		got, ok := cm.GroupColor(group)
		if !ok || got != hex {
			t.Errorf("GroupColor(%s) = %q, %v, want %q", group, got, ok, hex)
		}
	}
}

func TestAssignExplicitSkipsPaletteRank(t *testing.T) {
	tr, gm := resolved(t, "(A:1,B:2,(C:1,D:1):1);", []string{"Alpha:A", "Beta:B", "Gamma:C"})

	cm, err := Assign(tr, gm, map[string]string{"Beta": "teal"})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if got, _ := cm.GroupColor("Beta"); got != "#008080" {
		t.Errorf("GroupColor(Beta) = %q, want explicit #008080", got)
	}
	// Alpha takes palette slot 0, Gamma slot 1: explicitly colored
	// groups do not consume palette slots.
	if got, _ := cm.GroupColor("Alpha"); got != PaletteColor(0) {
		t.Errorf("GroupColor(Alpha) = %q, want %q", got, PaletteColor(0))
	}
	if got, _ := cm.GroupColor("Gamma"); got != PaletteColor(1) {
		t.Errorf("GroupColor(Gamma) = %q, want %q", got, PaletteColor(1))
	}
}

func TestAssignInvalidExplicitColor(t *testing.T) {
	tr, gm := resolved(t, "(A:1,B:2,(C:1,D:1):1);", []string{"Alpha:A"})

	_, err := Assign(tr, gm, map[string]string{"Alpha": "bogus"})
	if !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("Assign = %v, want INVALID_COLOR", err)
	}
}

func TestAssignDistanceFallback(t *testing.T) {
	tr, gm := resolved(t, "(A:1,B:2,(C:1,D:3):1);", nil)

	cm, err := Assign(tr, gm, nil)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if !cm.LeafLevel() {
		t.Fatal("ungrouped tree must use leaf-level colors")
	}
	if _, ok := cm.GroupColor(groups.Ungrouped); ok {
		t.Error("leaf-level map must not report group colors")
	}

	// A is the shallowest leaf (depth 1), D the deepest (depth 4).
	if got := cm.LeafColor("A", gm); got != Ramp(0) {
		t.Errorf("LeafColor(A) = %q, want gradient start %q", got, Ramp(0))
	}
	if got := cm.LeafColor("D", gm); got != Ramp(1) {
		t.Errorf("LeafColor(D) = %q, want gradient end %q", got, Ramp(1))
	}
	// C sits at depth 2 of range [1,4], a third of the way in.
	if got := cm.LeafColor("C", gm); got != Ramp(1.0/3.0) {
		t.Errorf("LeafColor(C) = %q, want %q", got, Ramp(1.0/3.0))
	}
}

func TestRampEndpointsAndClamp(t *testing.T) {
	if got := Ramp(0); got != "#2166AC" {
		t.Errorf("Ramp(0) = %q, want #2166AC", got)
	}
	if got := Ramp(1); got != "#B2182B" {
		t.Errorf("Ramp(1) = %q, want #B2182B", got)
	}
	if Ramp(-0.5) != Ramp(0) || Ramp(1.5) != Ramp(1) {
		t.Error("Ramp must clamp to [0,1]")
	}
	if got := Ramp(0.5); !strings.HasPrefix(got, "#") || len(got) != 7 {
		t.Errorf("Ramp(0.5) = %q, want #RRGGBB", got)
	}
}

func TestLeafColorGroupMode(t *testing.T) {
	tr, gm := resolved(t, "(A:1,B:2,(C:1,D:1):1);", []string{"Alpha:A,B"})

	cm, err := Assign(tr, gm, map[string]string{"Alpha": "#112233"})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got := cm.LeafColor("A", gm); got != "#112233" {
		t.Errorf("LeafColor(A) = %q, want group color #112233", got)
	}
	if got := cm.LeafColor("C", gm); got != cmUngrouped(t, cm) {
		t.Errorf("LeafColor(C) = %q, want Ungrouped color", got)
	}
}

func cmUngrouped(t *testing.T, cm *ColorMap) string {
	t.Helper()
	c, ok := cm.GroupColor(groups.Ungrouped)
	if !ok {
		t.Fatal("Ungrouped has no color")
	}
	return c
}
