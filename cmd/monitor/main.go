// Command monitor is a terminal dashboard client: it connects to the
// engine's WebSocket feed and renders live book depth, the trade
// tape, and engine statistics.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws/dashboard", "dashboard websocket URL")
	flag.Parse()

	p := tea.NewProgram(newModel(*addr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "monitor:", err)
		os.Exit(1)
	}
}
