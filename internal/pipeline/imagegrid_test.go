package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/alnah/go-md2wechat/internal/doctree"
)

func parseFragment(t *testing.T, content string) *doctree.Tree {
	t.Helper()
	tree, err := doctree.Parse(content)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return tree
}

func render(t *testing.T, tree *doctree.Tree) string {
	t.Helper()
	out, err := tree.Render()
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return out
}

func imageParagraphs(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "<p><img src=\"%d.png\" alt=\"%d\"/></p>\n", i, i)
	}
	return b.String()
}

// gridColumns returns the data-columns marker of every grid, in order.
func gridColumnMarkers(tree *doctree.Tree) []string {
	var out []string
	for _, id := range tree.MustQuery(tree.Root(), "div."+GridClass) {
		out = append(out, tree.AttrOr(id, ColumnsAttr, ""))
	}
	return out
}

// ---------------------------------------------------------------------------
// TestColumnsFor - Column table
// ---------------------------------------------------------------------------

func TestColumnsFor(t *testing.T) {
	t.Parallel()

	tests := map[int]int{0: 1, 1: 1, 2: 2, 3: 3, 4: 2, 5: 3, 6: 3, 7: 3, 12: 3}
	for count, want := range tests {
		if got := ColumnsFor(count); got != want {
			t.Errorf("ColumnsFor(%d) = %d, want %d", count, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestGroupImages - Adjacency runs
// ---------------------------------------------------------------------------

func TestGroupImages_RunSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		images  int
		columns string
	}{
		{2, "2"},
		{3, "3"},
		{4, "2"},
		{5, "3"},
		{7, "3"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d images", tt.images), func(t *testing.T) {
			t.Parallel()

			tree := parseFragment(t, imageParagraphs(tt.images))
			if got := GroupImages(tree); got != 1 {
				t.Fatalf("GroupImages() = %d, want 1", got)
			}
			if got := gridColumnMarkers(tree); !slices.Equal(got, []string{tt.columns}) {
				t.Errorf("columns = %v, want [%s]", got, tt.columns)
			}

			grid := tree.MustQuery(tree.Root(), "div."+GridClass)[0]
			if got := len(tree.FindAll(grid, "img")); got != tt.images {
				t.Errorf("grid holds %d images, want %d", got, tt.images)
			}
			if got := len(tree.MustQuery(tree.Root(), "p")); got != 0 {
				t.Errorf("%d host paragraphs left, want 0", got)
			}
		})
	}
}

func TestGroupImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		grids   int
		columns []string
	}{
		{
			name:  "empty document",
			input: "",
			grids: 0,
		},
		{
			name:  "single image never grouped",
			input: imageParagraphs(1),
			grids: 0,
		},
		{
			name:    "prose splits runs",
			input:   imageParagraphs(2) + "<p>text</p>" + imageParagraphs(3),
			grids:   2,
			columns: []string{"2", "3"},
		},
		{
			name:  "prose isolates singles",
			input: imageParagraphs(1) + "<p>text</p>" + imageParagraphs(1),
			grids: 0,
		},
		{
			name:    "several images in one paragraph",
			input:   "<p><img src=\"a.png\"/>\n<img src=\"b.png\"/></p>",
			grids:   1,
			columns: []string{"2"},
		},
		{
			name:    "line breaks between images",
			input:   "<p><img src=\"a.png\"/><br/><img src=\"b.png\"/><br/><img src=\"c.png\"/></p>",
			grids:   1,
			columns: []string{"3"},
		},
		{
			name:    "shared host then bare image",
			input:   "<p><img src=\"a.png\"/> <img src=\"b.png\"/></p><img src=\"c.png\"/>",
			grids:   1,
			columns: []string{"3"},
		},
		{
			name:  "caption text disqualifies host",
			input: "<p><img src=\"a.png\"/> caption</p><p><img src=\"b.png\"/></p>",
			grids: 0,
		},
		{
			name:  "linked image is not a host",
			input: "<p><a href=\"x\"><img src=\"a.png\"/></a></p><p><img src=\"b.png\"/></p>",
			grids: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := parseFragment(t, tt.input)
			if got := GroupImages(tree); got != tt.grids {
				t.Fatalf("GroupImages() = %d, want %d", got, tt.grids)
			}
			if got := gridColumnMarkers(tree); !slices.Equal(got, tt.columns) {
				t.Errorf("columns = %v, want %v", got, tt.columns)
			}
		})
	}
}

func TestGroupImages_Placement(t *testing.T) {
	t.Parallel()

	tree := parseFragment(t, "<h1>x</h1>"+imageParagraphs(2)+"<p>end</p>")
	GroupImages(tree)

	var tags []string
	for _, c := range tree.ElementChildren(tree.Root()) {
		tags = append(tags, tree.Tag(c))
	}
	if want := []string{"h1", "div", "p"}; !slices.Equal(tags, want) {
		t.Errorf("top-level tags = %v, want %v", tags, want)
	}

	grid := tree.ElementChildren(tree.Root())[1]
	if !tree.HasClass(grid, GridClass) {
		t.Fatal("second element is not the grid")
	}
	style := tree.AttrOr(grid, "style", "")
	if !strings.Contains(style, "grid-template-columns: repeat(2, 1fr)") {
		t.Errorf("grid style = %q", style)
	}

	imgs := tree.FindAll(grid, "img")
	if tree.AttrOr(imgs[0], "src", "") != "1.png" || tree.AttrOr(imgs[1], "src", "") != "2.png" {
		t.Error("grid images out of document order")
	}
	if got := tree.AttrOr(imgs[0], "alt", ""); got != "1" {
		t.Errorf("alt = %q, want attributes kept on clone", got)
	}
	if got := tree.AttrOr(imgs[0], "style", ""); got != gridImageStyle {
		t.Errorf("image style = %q, want grid sizing", got)
	}
}
