// Package styles holds the terminal styles of the lftrace command.
package styles

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"

	"lftrace/internal/trace"
)

var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(charmtone.Charple)
	Address = lipgloss.NewStyle().Foreground(charmtone.Squid)

	reactor = lipgloss.NewStyle().Foreground(charmtone.Malibu)
	trigger = lipgloss.NewStyle().Foreground(charmtone.Guac)
	user    = lipgloss.NewStyle().Foreground(charmtone.Cheeky)
)

// Kind renders the name of k in the color of its kind.
func Kind(k trace.Kind) string {
	switch k {
	case trace.KindReactor:
		return reactor.Render(k.String())
	case trace.KindTrigger:
		return trigger.Render(k.String())
	case trace.KindUser:
		return user.Render(k.String())
	default:
		return k.String()
	}
}
