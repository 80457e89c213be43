package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorBold   = "\033[1m"
)

// hLine prints a labelled horizontal separator, sized to the terminal
// when w is one.
func hLine(w io.Writer, msg string) {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > len(msg)+2 {
			pad := (width - len(msg) - 2) / 2
			fmt.Fprintf(w, strings.Repeat("-", pad)+"["+msg+"]"+strings.Repeat("-", pad)+"\n")
			return
		}
	}
	fmt.Fprintf(w, "["+msg+"]\n")
}
