package colors

import "github.com/fatih/color"

var (
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()

	WarningLabel = Yellow("Warning:")
)
