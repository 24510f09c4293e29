package pipeline

import (
	"fmt"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGridsToTables - Grid to table re-serialization
// ---------------------------------------------------------------------------

func TestGridsToTables_Shape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		images   int
		rows     int
		columns  int
		emptyTDs int
	}{
		{2, 1, 2, 0},
		{3, 1, 3, 0},
		{4, 2, 2, 0},
		{5, 2, 3, 1},
		{7, 3, 3, 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d images", tt.images), func(t *testing.T) {
			t.Parallel()

			tree := parseFragment(t, imageParagraphs(tt.images))
			GroupImages(tree)
			if got := GridsToTables(tree); got != 1 {
				t.Fatalf("GridsToTables() = %d, want 1", got)
			}

			if n := len(tree.MustQuery(tree.Root(), "."+GridClass)); n != 0 {
				t.Errorf("%d grids left after conversion", n)
			}
			rows := tree.MustQuery(tree.Root(), "table tr")
			if len(rows) != tt.rows {
				t.Fatalf("rows = %d, want %d", len(rows), tt.rows)
			}
			empty := 0
			for _, tr := range rows {
				cells := tree.ElementChildren(tr)
				if len(cells) != tt.columns {
					t.Errorf("row has %d cells, want %d", len(cells), tt.columns)
				}
				for _, td := range cells {
					if len(tree.Children(td)) == 0 {
						empty++
					}
				}
			}
			if empty != tt.emptyTDs {
				t.Errorf("empty cells = %d, want %d", empty, tt.emptyTDs)
			}
			if got := len(tree.FindAll(tree.Root(), "img")); got != tt.images {
				t.Errorf("images = %d, want %d", got, tt.images)
			}
		})
	}
}

func TestGridsToTables_ReadsMarker(t *testing.T) {
	t.Parallel()

	// The marker wins over the count-derived column number and the CSS.
	tree := parseFragment(t, `<div class="image-grid" data-columns="2" style="grid-template-columns: repeat(3, 1fr)">`+
		`<div><img src="1.png"/></div><div><img src="2.png"/></div><div><img src="3.png"/></div></div>`)
	GridsToTables(tree)

	rows := tree.MustQuery(tree.Root(), "tr")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	td := tree.MustQuery(tree.Root(), "td")[0]
	if style := tree.AttrOr(td, "style", ""); !strings.Contains(style, "width: 50% !important") {
		t.Errorf("cell style = %q, want 50%% width", style)
	}
}

func TestGridsToTables_MissingMarker(t *testing.T) {
	t.Parallel()

	tree := parseFragment(t, `<div class="image-grid"><div><img src="1.png"/></div><div><img src="2.png"/></div>`+
		`<div><img src="3.png"/></div></div>`)
	GridsToTables(tree)

	if got := len(tree.MustQuery(tree.Root(), "td")); got != 3 {
		t.Errorf("cells = %d, want 3 from ColumnsFor(3)", got)
	}
}

func TestGridsToTables_FixedHeight(t *testing.T) {
	t.Parallel()

	for _, n := range []int{2, 3} {
		tree := parseFragment(t, imageParagraphs(n))
		GroupImages(tree)
		GridsToTables(tree)

		img := tree.FindFirst(tree.Root(), "img")
		wrapper := tree.Parent(img)
		if style := tree.AttrOr(wrapper, "style", ""); !strings.Contains(style, "height: 200px !important") {
			t.Errorf("%d columns: wrapper style = %q", n, style)
		}
		if style := tree.AttrOr(img, "style", ""); style != gridCellImageStyle {
			t.Errorf("%d columns: image style = %q", n, style)
		}
	}
}

func TestGridsToTables_NoGrids(t *testing.T) {
	t.Parallel()

	tree := parseFragment(t, "<p>a</p>")
	if got := GridsToTables(tree); got != 0 {
		t.Errorf("GridsToTables() = %d, want 0", got)
	}
	if got := render(t, tree); got != "<p>a</p>" {
		t.Errorf("tree changed: %q", got)
	}
}
