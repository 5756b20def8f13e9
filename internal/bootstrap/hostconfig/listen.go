package hostconfig

import (
	"fmt"
	"net"
	"strings"

	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
)

// ResolveListenAddr accepts "host:port" or a TCP multiaddr such as
// /ip4/127.0.0.1/tcp/26657 and returns the host:port form net.Listen takes.
func ResolveListenAddr(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("listen address is required")
	}
	if strings.HasPrefix(raw, "/") {
		addr, err := ma.NewMultiaddr(raw)
		if err != nil {
			return "", fmt.Errorf("invalid listen multiaddr %q: %w", raw, err)
		}
		network, hostport, err := manet.DialArgs(addr)
		if err != nil {
			return "", fmt.Errorf("invalid listen multiaddr %q: %w", raw, err)
		}
		if !strings.HasPrefix(network, "tcp") {
			return "", fmt.Errorf("listen multiaddr %q must be tcp, got %s", raw, network)
		}
		return hostport, nil
	}
	if _, _, err := net.SplitHostPort(raw); err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", raw, err)
	}
	return raw, nil
}
