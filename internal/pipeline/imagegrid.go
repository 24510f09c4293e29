package pipeline

import (
	"strconv"
	"strings"

	"github.com/alnah/go-md2wechat/internal/doctree"
)

// Grid markers read back by the table converter.
const (
	GridClass   = "image-grid"
	ColumnsAttr = "data-columns"
)

const (
	gridImageWrapperStyle = "width: 100%; display: flex; align-items: center; justify-content: center; " +
		"background-color: #f5f5f5; border-radius: 4px; overflow: hidden; min-height: 120px; max-height: 360px"
	gridImageStyle = "width: 100%; height: 100%; object-fit: contain; border-radius: 4px"
)

// ColumnsFor maps an image count to a grid column count: 2→2, 3→3, 4→2,
// anything larger→3. Counts below 2 are never grouped and return 1.
func ColumnsFor(count int) int {
	switch {
	case count < 2:
		return 1
	case count == 2, count == 4:
		return 2
	default:
		return 3
	}
}

func gridStyle(columns int) string {
	return "display: grid; grid-template-columns: repeat(" + strconv.Itoa(columns) +
		", 1fr); gap: 8px; margin: 20px auto; max-width: 100%"
}

// imageItem is one image found at the top level, with the element that
// carries it and that element's position among the top-level elements.
type imageItem struct {
	host  doctree.NodeID
	img   doctree.NodeID
	index int
}

// GroupImages replaces each run of two or more adjacent top-level images
// with a grid container and returns the number of grids created.
//
// Position indexes count element children of the root only, so whitespace
// between blocks never breaks a run. Two items are adjacent when they share
// a host or their hosts are consecutive elements.
func GroupImages(t *doctree.Tree) int {
	var items []imageItem
	for i, child := range t.ElementChildren(t.Root()) {
		for _, img := range hostedImages(t, child) {
			items = append(items, imageItem{host: child, img: img, index: i})
		}
	}

	grids := 0
	for _, run := range adjacencyRuns(items) {
		if len(run) < 2 {
			continue
		}
		buildGrid(t, run)
		grids++
	}
	return grids
}

// hostedImages returns the images carried by a top-level element: the
// element itself for a bare <img>, or the children of an element whose only
// meaningful content is images (line breaks and whitespace are ignored).
func hostedImages(t *doctree.Tree, el doctree.NodeID) []doctree.NodeID {
	if t.IsElement(el, "img") {
		return []doctree.NodeID{el}
	}

	var imgs []doctree.NodeID
	for _, c := range t.Children(el) {
		switch t.Type(c) {
		case doctree.TextNode:
			if strings.TrimSpace(t.Data(c)) != "" {
				return nil
			}
		case doctree.ElementNode:
			switch t.Tag(c) {
			case "img":
				imgs = append(imgs, c)
			case "br":
			default:
				return nil
			}
		}
	}
	return imgs
}

// adjacencyRuns partitions items into maximal runs of continuous positions.
func adjacencyRuns(items []imageItem) [][]imageItem {
	var runs [][]imageItem
	var current []imageItem
	for i, item := range items {
		if i > 0 {
			gap := item.index - items[i-1].index
			if gap > 1 {
				runs = append(runs, current)
				current = nil
			}
		}
		current = append(current, item)
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}

func buildGrid(t *doctree.Tree, run []imageItem) {
	columns := ColumnsFor(len(run))
	grid := t.NewElement("div",
		doctree.Attr{Key: "class", Val: GridClass},
		doctree.Attr{Key: ColumnsAttr, Val: strconv.Itoa(columns)},
		doctree.Attr{Key: "style", Val: gridStyle(columns)},
	)

	for _, item := range run {
		wrapper := t.NewElement("div", doctree.Attr{Key: "style", Val: gridImageWrapperStyle})
		img := t.CloneNode(item.img)
		t.SetAttr(img, "style", gridImageStyle)
		t.AppendChild(wrapper, img)
		t.AppendChild(grid, wrapper)
	}

	t.InsertBefore(grid, run[0].host)

	removed := make(map[doctree.NodeID]bool, len(run))
	for _, item := range run {
		if removed[item.host] {
			continue
		}
		removed[item.host] = true
		t.Remove(item.host)
	}
}
