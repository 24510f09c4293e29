package pipeline

import (
	"strconv"

	"github.com/alnah/go-md2wechat/internal/doctree"
)

// tableCellHeight is the fixed image box height in exported grids. It does
// not depend on the column count so mixed grids line up in hosts without CSS
// grid support.
const tableCellHeight = "200px"

const (
	gridTableStyle = "width: 100% !important; border-collapse: collapse !important; margin: 20px auto !important; " +
		"table-layout: fixed !important; border: none !important; background: transparent !important"
	gridCellWrapperStyle = "width: 100% !important; height: " + tableCellHeight + " !important; text-align: center !important; " +
		"background-color: transparent !important; border-radius: 4px !important; overflow: hidden !important; " +
		"padding: 4px !important; display: flex !important; align-items: center !important; " +
		"justify-content: center !important; position: relative !important"
	gridCellImageStyle = "max-width: 100% !important; max-height: 100% !important; width: auto !important; " +
		"height: auto !important; display: block !important; object-fit: contain !important; border-radius: 4px !important"
)

func gridCellStyle(columns int) string {
	width := strconv.FormatFloat(100/float64(columns), 'f', -1, 64)
	return "padding: 4px !important; vertical-align: top !important; width: " + width +
		"% !important; border: none !important; background: transparent !important"
}

// GridsToTables replaces every grid container under the root with a table
// and returns how many were converted. The column count comes from the
// container's data-columns marker; cells past the last image stay empty so
// every row has the same number of cells.
func GridsToTables(t *doctree.Tree) int {
	var grids []doctree.NodeID
	t.Walk(t.Root(), func(id doctree.NodeID) bool {
		if t.IsElement(id, "div") && t.HasClass(id, GridClass) {
			grids = append(grids, id)
			return false
		}
		return true
	})

	for _, grid := range grids {
		t.ReplaceWith(grid, gridTable(t, grid))
	}
	return len(grids)
}

// gridImages returns one image per grid item, in order. Items without an
// image still occupy a cell.
func gridImages(t *doctree.Tree, grid doctree.NodeID) []doctree.NodeID {
	var imgs []doctree.NodeID
	for _, item := range t.ElementChildren(grid) {
		if t.IsElement(item, "img") {
			imgs = append(imgs, item)
			continue
		}
		imgs = append(imgs, t.FindFirst(item, "img"))
	}
	return imgs
}

func gridColumns(t *doctree.Tree, grid doctree.NodeID, count int) int {
	if v, ok := t.Attr(grid, ColumnsAttr); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return ColumnsFor(count)
}

func gridTable(t *doctree.Tree, grid doctree.NodeID) doctree.NodeID {
	imgs := gridImages(t, grid)
	columns := gridColumns(t, grid, len(imgs))
	rows := (len(imgs) + columns - 1) / columns

	table := t.NewElement("table", doctree.Attr{Key: "style", Val: gridTableStyle})
	tbody := t.NewElement("tbody")
	t.AppendChild(table, tbody)

	cellStyle := gridCellStyle(columns)
	for r := 0; r < rows; r++ {
		tr := t.NewElement("tr")
		for c := 0; c < columns; c++ {
			td := t.NewElement("td", doctree.Attr{Key: "style", Val: cellStyle})
			if i := r*columns + c; i < len(imgs) && imgs[i] != doctree.NoNode {
				wrapper := t.NewElement("div", doctree.Attr{Key: "style", Val: gridCellWrapperStyle})
				img := t.CloneNode(imgs[i])
				t.SetAttr(img, "style", gridCellImageStyle)
				t.AppendChild(wrapper, img)
				t.AppendChild(td, wrapper)
			}
			t.AppendChild(tr, td)
		}
		t.AppendChild(tbody, tr)
	}
	return table
}
