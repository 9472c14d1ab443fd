package navigation

import (
	"fmt"
	"log/slog"

	"github.com/ccsustmap/campusmap/internal/core/ports"
)

// Launcher modes accepted by Select.
const (
	ModeAuto = "auto"
	ModeNATS = "nats"
	ModeLink = "link"
)

// Select picks the launcher once at startup. bus is the NATS launcher when a
// connection is available, or nil. Auto prefers the bus and falls back to
// links.
func Select(mode string, bus ports.NavigationLauncher, link *LinkLauncher, logger *slog.Logger) (ports.NavigationLauncher, error) {
	var chosen ports.NavigationLauncher
	switch mode {
	case ModeAuto, "":
		if bus != nil {
			chosen = bus
		} else {
			chosen = link
		}
	case ModeNATS:
		if bus == nil {
			return nil, fmt.Errorf("navigation launcher %q requires a NATS connection", mode)
		}
		chosen = bus
	case ModeLink:
		chosen = link
	default:
		return nil, fmt.Errorf("unknown navigation launcher %q", mode)
	}
	logger.Info("navigation launcher selected", "mode", mode, "launcher", chosen.Name())
	return chosen, nil
}
