package executor

import (
	"SlotDB/storage_engine/access"
	"SlotDB/types"
	"fmt"
	"io"
	"strings"
)

const cellWidth = 20

// PrintLine writes one row of cells separated by "| ".
func PrintLine(w io.Writer, cells []string) {
	for i, cell := range cells {
		fmt.Fprintf(w, "%-*s", cellWidth, cell)
		if i < len(cells)-1 {
			fmt.Fprint(w, "| ")
		}
	}
	fmt.Fprintln(w)
}

func PrintSeparator(w io.Writer, count int) {
	if count > 0 {
		fmt.Fprintln(w, strings.Repeat("-", (cellWidth+2)*count-2))
	}
}

// PrintTable writes a header and every row of rs, and returns the row count.
func PrintTable(w io.Writer, rs access.RowStore) (int, error) {
	names := rs.Schema().Names()
	PrintLine(w, names)
	PrintSeparator(w, len(names))

	n := 0
	err := access.Scan(rs, func(_ access.Cursor, row types.Row) error {
		cells := make([]string, row.Len())
		for i, f := range row.Fields {
			cells[i] = f.String()
		}
		PrintLine(w, cells)
		n++
		return nil
	})
	return n, err
}
