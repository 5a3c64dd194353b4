package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Table is the text rendition of a result.
type Table struct {
	Header []string
	Rows   [][]string
	// StateColumn, when >= 0, is styled with StateStyle.
	StateColumn int
	// Empty is printed instead of a table without rows.
	Empty string
}

// Renderer writes results in one format.
type Renderer struct {
	w       io.Writer
	format  Format
	noColor bool
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer, format Format, noColor bool) *Renderer {
	return &Renderer{w: w, format: format, noColor: noColor}
}

// Format returns the renderer's format.
func (r *Renderer) Format() Format {
	return r.format
}

// Render writes data as JSON or YAML, or table as text.
func (r *Renderer) Render(data any, table Table) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "cannot encode JSON")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "cannot encode YAML")
		}
		return enc.Close()
	default:
		return r.renderTable(table)
	}
}

func (r *Renderer) renderTable(t Table) error {
	if len(t.Rows) == 0 {
		if t.Empty != "" {
			_, err := fmt.Fprintln(r.w, t.Empty)
			return err
		}
		return nil
	}

	data := pterm.TableData{r.styleRow(t.Header, -1, HeaderStyle)}
	for _, row := range t.Rows {
		data = append(data, r.styleRow(row, t.StateColumn, nil))
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot render table")
	}
	_, err = fmt.Fprintln(r.w, out)
	return err
}

func (r *Renderer) styleRow(row []string, stateColumn int, all *pterm.Style) []string {
	if r.noColor {
		return row
	}
	styled := make([]string, len(row))
	for i, cell := range row {
		switch {
		case all != nil:
			styled[i] = all.Sprint(cell)
		case i == stateColumn:
			styled[i] = StateStyle(cell).Sprint(cell)
		default:
			styled[i] = cell
		}
	}
	return styled
}

// Message writes a line of text output. Machine formats print nothing.
func (r *Renderer) Message(format string, args ...any) {
	if r.format != FormatText {
		return
	}
	_, _ = fmt.Fprintf(r.w, format+"\n", args...)
}
