package web

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD type the settings API is advertised under.
const ServiceType = "_tahoeglow._tcp"

// Advertise announces the API on port over multicast DNS so settings
// panels on the local network can find it. Call Shutdown on the returned
// server to withdraw it.
func Advertise(port int, l Logger) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, []string{"TahoeGlow", "path=/api/v1"})
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS server: %w", err)
	}
	if l != nil {
		l.Infof("web", "advertising %s on port %d as %s", ServiceType, port, host)
	}
	return server, nil
}
