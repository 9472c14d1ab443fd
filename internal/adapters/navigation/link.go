package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

// DefaultLinkBase is the Apple Maps universal link.
const DefaultLinkBase = "https://maps.apple.com/"

var dirflg = map[domain.TravelMode]string{
	domain.TravelModeWalking: "w",
}

// DeepLink builds a directions URL for req against base.
func DeepLink(base string, req domain.NavigationRequest) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse link base: %w", err)
	}
	q := u.Query()
	q.Set("daddr", strconv.FormatFloat(req.Destination.Lat, 'f', 6, 64)+","+strconv.FormatFloat(req.Destination.Lon, 'f', 6, 64))
	if req.Name != "" {
		q.Set("q", req.Name)
	}
	if flag, ok := dirflg[req.Mode]; ok {
		q.Set("dirflg", flag)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// LinkLauncher hands off by emitting a maps deep link. The link is logged and
// passed to an optional sink (for example a client relay).
type LinkLauncher struct {
	base   string
	sink   func(link string)
	logger *slog.Logger
}

// NewLinkLauncher creates a launcher for base. An empty base uses DefaultLinkBase.
func NewLinkLauncher(base string, sink func(string), logger *slog.Logger) *LinkLauncher {
	if base == "" {
		base = DefaultLinkBase
	}
	return &LinkLauncher{base: base, sink: sink, logger: logger}
}

func (l *LinkLauncher) Name() string { return "link" }

// Launch builds the deep link for req.
func (l *LinkLauncher) Launch(ctx context.Context, req domain.NavigationRequest) error {
	link, err := DeepLink(l.base, req)
	if err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "navigation link", "destination", req.Name, "url", link)
	if l.sink != nil {
		l.sink(link)
	}
	return nil
}

// Base is the configured link base.
func (l *LinkLauncher) Base() string { return l.base }
