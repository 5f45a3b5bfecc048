package analyzer

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrBlockedAddress is returned when a page fetch resolves to an internal address
var ErrBlockedAddress = errors.New("destination address is not allowed")

// controlDial runs after DNS resolution, so address is the IP actually dialed.
// Redirects go through it as well.
func (a *Analyzer) controlDial(_, address string, _ syscall.RawConn) error {
	if a.allowPrivate.Load() {
		return nil
	}
	return checkPublicAddress(address)
}

func checkPublicAddress(address string) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("%w: %q is not an IP address", ErrBlockedAddress, host)
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ip)
	}
	return nil
}
