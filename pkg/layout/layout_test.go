package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/newick"
	"github.com/matzehuels/phylotree/pkg/tree"
)

const eps = 1e-9

func parse(t *testing.T, text string) *tree.Tree {
	t.Helper()
	tr, err := newick.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tr
}

func leaf(t *testing.T, tr *tree.Tree, name string) int {
	t.Helper()
	idx, ok := tr.Lookup(name)
	if !ok {
		t.Fatalf("leaf %q not found", name)
	}
	return idx
}

func TestParseStyle(t *testing.T) {
	for _, s := range Styles {
		got, err := ParseStyle(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStyle(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseStyle("spiral"); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("ParseStyle(spiral) = %v, want INVALID_STYLE", err)
	}
}

func TestRectangular(t *testing.T) {
	tr := parse(t, "(A:1,B:2,(C:1,D:1):1);")

	l, err := Compute(tr, StyleRectangular)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// Leaves at y = canonical rank, x = cumulative depth.
	want := map[string]Point{
		"A": {X: 1, Y: 0},
		"B": {X: 2, Y: 1},
		"C": {X: 2, Y: 2},
		"D": {X: 2, Y: 3},
	}
	for name, p := range want {
		got := l.Points[leaf(t, tr, name)]
		if math.Abs(got.X-p.X) > eps || math.Abs(got.Y-p.Y) > eps {
			t.Errorf("Points[%s] = %+v, want %+v", name, got, p)
		}
	}

	// The internal node over C,D sits at the mean of their ys.
	inner := tr.At(leaf(t, tr, "C")).Parent
	if got := l.Points[inner]; math.Abs(got.Y-2.5) > eps || math.Abs(got.X-1) > eps {
		t.Errorf("internal node at %+v, want {X:1 Y:2.5}", got)
	}
	if got := l.Points[tr.Root()]; math.Abs(got.X) > eps {
		t.Errorf("root x = %f, want 0", got.X)
	}
}

func TestCircularAngles(t *testing.T) {
	tr := parse(t, "(A:1,B:2,(C:1,D:1):1);")

	l, err := Compute(tr, StyleCircular)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	slot := 2 * math.Pi / 4
	wantAngles := map[string]float64{
		"A": 0.5 * slot,
		"B": 1.5 * slot,
		"C": 2.5 * slot,
		"D": 3.5 * slot,
	}
	for name, a := range wantAngles {
		got := l.Polar[leaf(t, tr, name)].Angle
		if math.Abs(got-a) > eps {
			t.Errorf("angle(%s) = %f, want %f", name, got, a)
		}
	}

	// Internal node over C,D at their angular midpoint.
	inner := tr.At(leaf(t, tr, "C")).Parent
	if got := l.Polar[inner].Angle; math.Abs(got-3*slot) > eps {
		t.Errorf("internal angle = %f, want %f", got, 3*slot)
	}

	// Radii normalized to the deepest node.
	if got := l.Polar[leaf(t, tr, "B")].Radius; math.Abs(got-1) > eps {
		t.Errorf("radius(B) = %f, want 1 (deepest leaf on unit circle)", got)
	}
	if got := l.Polar[leaf(t, tr, "A")].Radius; math.Abs(got-0.5) > eps {
		t.Errorf("radius(A) = %f, want 0.5", got)
	}
	if got := l.Polar[tr.Root()].Radius; got != 0 {
		t.Errorf("radius(root) = %f, want 0", got)
	}
}

func TestRadialRawDepth(t *testing.T) {
	tr := parse(t, "(A:1,B:2,(C:1,D:1):1);")

	circ, err := Compute(tr, StyleCircular)
	if err != nil {
		t.Fatalf("Compute circular: %v", err)
	}
	rad, err := Compute(tr, StyleRadial)
	if err != nil {
		t.Fatalf("Compute radial: %v", err)
	}

	// Same angles as circular, raw depth as radius.
	for i := 0; i < tr.Len(); i++ {
		if math.Abs(circ.Polar[i].Angle-rad.Polar[i].Angle) > eps {
			t.Errorf("node %d: radial angle %f != circular angle %f",
				i, rad.Polar[i].Angle, circ.Polar[i].Angle)
		}
		if math.Abs(rad.Polar[i].Radius-tr.At(i).Depth) > eps {
			t.Errorf("node %d: radial radius %f, want raw depth %f",
				i, rad.Polar[i].Radius, tr.At(i).Depth)
		}
	}
}

func TestHeatmap(t *testing.T) {
	tr := parse(t, "(A:1,B:2,(C:1,D:1):1);")

	l, err := Compute(tr, StyleHeatmap)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if l.Matrix == nil {
		t.Fatal("heatmap layout must carry the distance matrix")
	}
	if l.Matrix.Dim() != 4 {
		t.Errorf("Dim = %d, want 4", l.Matrix.Dim())
	}
	if !reflect.DeepEqual(l.LeafOrder, tr.Leaves()) {
		t.Errorf("LeafOrder = %v, want canonical %v", l.LeafOrder, tr.Leaves())
	}
	if d := l.Matrix.At(0, 1); math.Abs(d-3) > eps {
		t.Errorf("distance(A,B) = %f, want 3", d)
	}
	if l.Polar != nil || l.Points != nil {
		t.Error("heatmap layout must not carry node coordinates")
	}
}

func TestEdgesPreorder(t *testing.T) {
	tr := parse(t, "(A:1,B:2,(C:1,D:1):1);")

	l, err := Compute(tr, StyleRectangular)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(l.Edges) != tr.Len()-1 {
		t.Fatalf("got %d edges, want %d", len(l.Edges), tr.Len()-1)
	}
	seen := map[int]bool{tr.Root(): true}
	for _, e := range l.Edges {
		if !seen[e.Parent] {
			t.Errorf("edge %v drawn before its parent was reached", e)
		}
		seen[e.Child] = true
	}
}

func TestStarTopology(t *testing.T) {
	tr := parse(t, "(A:1,B:1,C:2);")

	for _, style := range Styles {
		l, err := Compute(tr, style)
		if err != nil {
			t.Fatalf("Compute(%s): %v", style, err)
		}
		if len(l.LeafOrder) != 3 {
			t.Errorf("%s: LeafOrder = %v", style, l.LeafOrder)
		}
	}

	circ, _ := Compute(tr, StyleCircular)
	// Root angle is the midpoint of its children's span.
	slot := 2 * math.Pi / 3
	wantRoot := (0.5*slot + 2.5*slot) / 2
	if got := circ.Polar[tr.Root()].Angle; math.Abs(got-wantRoot) > eps {
		t.Errorf("root angle = %f, want %f", got, wantRoot)
	}
}

func TestDeterminism(t *testing.T) {
	tr := parse(t, "((A:1,B:1):2,(C:3,(D:1,E:1):1):1,F:4);")

	for _, style := range Styles {
		a, err := Compute(tr, style)
		if err != nil {
			t.Fatalf("Compute(%s): %v", style, err)
		}
		b, _ := Compute(tr, style)
		if !reflect.DeepEqual(a.Polar, b.Polar) || !reflect.DeepEqual(a.Points, b.Points) {
			t.Errorf("%s: repeated computation differs", style)
		}
		if !reflect.DeepEqual(a.Edges, b.Edges) || !reflect.DeepEqual(a.LeafOrder, b.LeafOrder) {
			t.Errorf("%s: repeated draw order differs", style)
		}
	}
}
