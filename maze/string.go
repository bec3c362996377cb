package maze

import "strings"

// String provides a textual representation of the maze. Start and end are
// marked S and E, inactive cells are filled with #.
func (m *Maze) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", m.width) + "\n")

	for y := 0; y < m.height; y++ {
		// Cell rows
		cellRow := "|"
		for x := 0; x < m.width; x++ {
			cell := m.MustCell(x, y)
			switch {
			case cell == m.Start():
				cellRow += " S "
			case cell == m.End():
				cellRow += " E "
			case cell.IsInactive():
				cellRow += "###"
			default:
				cellRow += "   "
			}

			// Add east wall or space
			if cell.HasWall(East) {
				cellRow += "|"
			} else {
				cellRow += " "
			}
		}
		output.WriteString(cellRow + "\n")

		// Wall rows
		wallRow := "+"
		for x := 0; x < m.width; x++ {
			if m.MustCell(x, y).HasWall(South) {
				wallRow += "---+"
			} else {
				wallRow += "   +"
			}
		}
		output.WriteString(wallRow + "\n")
	}

	return output.String()
}
