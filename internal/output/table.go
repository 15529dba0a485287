package output

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCyan)
	tableBorderStyle = lipgloss.NewStyle().Foreground(ColorDimGray)
)

// Table is a bordered listing. One column may hold status words, which are
// colored with StatusStyle.
type Table struct {
	headers      []string
	rows         [][]string
	statusColumn int
}

// NewTable creates a table with the given headers and no status column.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, statusColumn: -1}
}

// StatusColumn marks column i as holding status words.
func (t *Table) StatusColumn(i int) *Table {
	t.statusColumn = i
	return t
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table.
func (t *Table) String() string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == t.statusColumn && row >= 0 && row < len(t.rows) && col < len(t.rows[row]):
				return StatusStyle(t.rows[row][col])
			default:
				return lipgloss.NewStyle()
			}
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}
	return tbl.String()
}

// HashRow is one target of a `cache hashes` listing.
type HashRow struct {
	Project string
	Target  string
	Product string
	Hash    string
	Status  string
}

// RenderHashTable lists target hashes and their cache status.
func RenderHashTable(rows []HashRow) string {
	t := NewTable("TARGET", "PRODUCT", "HASH", "STATUS").StatusColumn(3)
	for _, r := range rows {
		t.Row(targetPath(r.Project, r.Target), r.Product, FormatHash(r.Hash), r.Status)
	}
	return t.String()
}

// EntryRow is one stored cache entry.
type EntryRow struct {
	Hash     string
	Project  string
	Target   string
	Profile  string
	Size     int64
	StoredAt time.Time
}

// RenderEntryTable lists stored cache entries.
func RenderEntryTable(rows []EntryRow) string {
	t := NewTable("HASH", "TARGET", "PROFILE", "SIZE", "STORED")
	for _, r := range rows {
		t.Row(FormatHash(r.Hash), targetPath(r.Project, r.Target), r.Profile,
			FormatSize(r.Size), r.StoredAt.Local().Format(time.DateTime))
	}
	return t.String()
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func targetPath(project, target string) string {
	if project == "" {
		return target
	}
	return project + "/" + target
}
