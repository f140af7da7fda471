package tui

import (
	"fmt"
	"strings"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/model"

	"github.com/charmbracelet/lipgloss"
)

// seatCursor points at rows[row].Seats[col] of the grouped seat map.
type seatCursor struct {
	row int
	col int
}

var (
	seatStyleAvailable = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatStyleReserved  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatStyleSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	seatStyleCursor    = lipgloss.NewStyle().Reverse(true)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noticeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// firstFreeSeat places the cursor on the first seat that can be selected,
// or the first seat when every seat is reserved.
func firstFreeSeat(rows []booking.Row) seatCursor {
	for r, row := range rows {
		for c, seat := range row.Seats {
			if !seat.IsReserved {
				return seatCursor{row: r, col: c}
			}
		}
	}
	return seatCursor{}
}

// move shifts the cursor and clamps it to the seat map. Moving between rows
// keeps the seat number as close as possible.
func (c seatCursor) move(rows []booking.Row, dRow, dCol int) seatCursor {
	if len(rows) == 0 {
		return seatCursor{}
	}
	c = c.clamp(rows)
	if dRow != 0 {
		number := rows[c.row].Seats[c.col].Number
		c.row = min(max(c.row+dRow, 0), len(rows)-1)
		c.col = nearestSeat(rows[c.row].Seats, number)
		return c
	}
	c.col = min(max(c.col+dCol, 0), len(rows[c.row].Seats)-1)
	return c
}

func (c seatCursor) clamp(rows []booking.Row) seatCursor {
	if len(rows) == 0 {
		return seatCursor{}
	}
	c.row = min(max(c.row, 0), len(rows)-1)
	c.col = min(max(c.col, 0), max(len(rows[c.row].Seats)-1, 0))
	return c
}

func (c seatCursor) seat(rows []booking.Row) (model.Seat, bool) {
	if c.row < 0 || c.row >= len(rows) {
		return model.Seat{}, false
	}
	seats := rows[c.row].Seats
	if c.col < 0 || c.col >= len(seats) {
		return model.Seat{}, false
	}
	return seats[c.col], true
}

func nearestSeat(seats []model.Seat, number int) int {
	best := 0
	bestDist := -1
	for i, seat := range seats {
		dist := seat.Number - number
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

func (m appModel) renderSeatMap() string {
	rows := m.workflow.Rows()
	if len(rows) == 0 {
		return "No seats for this showtime."
	}

	maxNumber := 0
	free := 0
	total := 0
	for _, row := range rows {
		for _, seat := range row.Seats {
			maxNumber = max(maxNumber, seat.Number)
			total++
			if !seat.IsReserved {
				free++
			}
		}
	}

	rowWidth := len(fmt.Sprintf("%d", rows[len(rows)-1].Number))
	cellWidth := 2
	if m.showSeatNumbers {
		cellWidth = max(cellWidth, len(fmt.Sprintf("%d", maxNumber)))
	}

	current, hasCurrent := m.cursor.seat(rows)

	var b strings.Builder
	for _, row := range rows {
		byNumber := make(map[int]model.Seat, len(row.Seats))
		for _, seat := range row.Seats {
			byNumber[seat.Number] = seat
		}
		label := fmt.Sprintf("%d", row.Number)
		b.WriteString(fmt.Sprintf("%*s ", rowWidth, label))
		for n := 1; n <= maxNumber; n++ {
			seat, ok := byNumber[n]
			if !ok {
				b.WriteString(padCell("", cellWidth))
			} else {
				selected := m.workflow.IsSelected(seat.Id)
				text := seatToken(seat, selected)
				if m.showSeatNumbers {
					text = fmt.Sprintf("%d", seat.Number)
				}
				rendered := padCell(text, cellWidth)
				switch {
				case seat.IsReserved:
					rendered = seatStyleReserved.Render(rendered)
				case selected:
					rendered = seatStyleSelected.Render(rendered)
				default:
					rendered = seatStyleAvailable.Render(rendered)
				}
				if hasCurrent && seat.Id == current.Id {
					rendered = seatStyleCursor.Render(rendered)
				}
				b.WriteString(rendered)
			}
			if n < maxNumber {
				b.WriteString(" ")
			}
		}
		b.WriteString(fmt.Sprintf(" %*s\n", rowWidth, label))
	}

	gridWidth := maxNumber*(cellWidth+1) - 1
	screenStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214"))
	screenBorderStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Background(lipgloss.Color("236"))

	screenBar := screenBarBlock(gridWidth, "SCREEN")
	indent := strings.Repeat(" ", rowWidth+1)

	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(screenBorderStyle.Render(screenBar.top))
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(screenStyle.Render(screenBar.mid))
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(screenBorderStyle.Render(screenBar.bot))
	b.WriteString("\n\n")

	legend := "Legend: [] available • XX reserved • <> selected"
	if m.showSeatNumbers {
		legend = "Legend: color shows status • numbers are seat numbers"
	}
	b.WriteString(hint(legend))
	b.WriteString("\n")
	b.WriteString(hint(fmt.Sprintf("Free: %d of %d", free, total)))
	if hasCurrent {
		state := "free"
		if current.IsReserved {
			state = "reserved"
		} else if m.workflow.IsSelected(current.Id) {
			state = "selected"
		}
		b.WriteString(hint(fmt.Sprintf(" • Cursor: row %d seat %d (%s)", current.Row, current.Number, state)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.selectionSummary())
	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.notice))
	}
	return b.String()
}

// selectionSummary is recomputed from the workflow on every render so the
// total always matches the selection.
func (m appModel) selectionSummary() string {
	selected := m.workflow.Selected()
	price := m.workflow.Showtime().Price
	summary := fmt.Sprintf("Selected: %d/%d", len(selected), m.workflow.MaxSeats())
	if len(selected) > 0 {
		labels := make([]string, 0, len(selected))
		index := seatIndex(m.workflow.Rows())
		for _, id := range selected {
			if seat, ok := index[id]; ok {
				labels = append(labels, fmt.Sprintf("R%d-%d", seat.Row, seat.Number))
			}
		}
		summary += " • " + strings.Join(labels, ", ")
	}
	summary += fmt.Sprintf(" • %s each • Total %s", price, m.workflow.Total())
	return lipgloss.NewStyle().Bold(true).Render(summary)
}

func seatIndex(rows []booking.Row) map[int64]model.Seat {
	index := map[int64]model.Seat{}
	for _, row := range rows {
		for _, seat := range row.Seats {
			index[seat.Id] = seat
		}
	}
	return index
}

func seatToken(seat model.Seat, selected bool) string {
	switch {
	case seat.IsReserved:
		return "XX"
	case selected:
		return "<>"
	default:
		return "[]"
	}
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

type screenBlock struct {
	top string
	mid string
	bot string
}

func screenBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}
