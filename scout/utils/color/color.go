// scout/utils/color/color.go
package color

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	promptColor  = color.New(color.FgCyan, color.Bold)
	infoColor    = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	stageColor   = color.New(color.FgHiBlue)
	titleColor   = color.New(color.FgHiYellow, color.Bold)
	linkColor    = color.New(color.FgBlue, color.Underline)
	successColor = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgMagenta, color.Bold)
)

func ColorPrompt(s string) string {
	return promptColor.Sprint(s)
}

func ColorInfo(s string) string {
	return infoColor.Sprint(s)
}

func ColorWarning(s string) string {
	return warningColor.Sprint(s)
}

func ColorError(s string) string {
	return errorColor.Sprint(s)
}

func ColorStage(s string) string {
	return stageColor.Sprint(s)
}

func ColorTitle(s string) string {
	return titleColor.Sprint(s)
}

func ColorLink(s string) string {
	return linkColor.Sprint(s)
}

func ColorFinalSuccess(s string) string {
	return successColor.Sprint(s)
}

func ColorFinalFail(s string) string {
	return failColor.Sprint(s)
}

// DisableColorIfNotTTY turns colour off when stdout is piped.
func DisableColorIfNotTTY() {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		color.NoColor = true
	}
}
