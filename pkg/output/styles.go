package output

import "github.com/pterm/pterm"

// StateStyle returns the style for a link or check state.
func StateStyle(state string) *pterm.Style {
	switch state {
	case "ok":
		return pterm.NewStyle(pterm.FgGreen)
	case "missing":
		return pterm.NewStyle(pterm.FgYellow)
	case "wrong", "error":
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// HeaderStyle styles table headers.
var HeaderStyle = pterm.NewStyle(pterm.FgCyan, pterm.Bold)
