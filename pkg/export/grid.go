package export

import "fmt"

// Grid is a weekly timetable laid out as one row per day and one column per time slot.
// Each cell holds zero or more text lines.
type Grid struct {
	Title   string
	Corner  string
	Columns []string
	Rows    []GridRow
}

// GridRow is a labelled line of the grid.
type GridRow struct {
	Label string
	Cells [][]string
}

func (g Grid) validate() error {
	if len(g.Columns) == 0 {
		return fmt.Errorf("grid requires at least one column")
	}
	for _, row := range g.Rows {
		if len(row.Cells) != len(g.Columns) {
			return fmt.Errorf("row %q has %d cells, want %d", row.Label, len(row.Cells), len(g.Columns))
		}
	}
	return nil
}
