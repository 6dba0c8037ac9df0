package middleware

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"
)

// DefaultBindPort is used when no port is configured.
const DefaultBindPort = "3000"

const routeTable = "/proc/net/route"

// defaultRouteInterfaces lists interfaces with a 00000000 destination in a
// /proc/net/route formatted table.
func defaultRouteInterfaces(r io.Reader) []string {
	var ifaces []string
	seen := map[string]bool{}
	scanner := bufio.NewScanner(r)
	scanner.Scan() // header
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[1] != "00000000" || seen[fields[0]] {
			continue
		}
		seen[fields[0]] = true
		ifaces = append(ifaces, fields[0])
	}
	return ifaces
}

// interfaceIPv4 returns the first IPv4 network of an interface.
func interfaceIPv4(name string) (*net.IPNet, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("interface %s not found: %w", name, err)
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("failed to get addresses for interface %s: %w", name, err)
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ip := ipNet.IP.To4(); ip != nil {
			return &net.IPNet{IP: ip, Mask: ipNet.Mask}, nil
		}
	}
	return nil, fmt.Errorf("no IPv4 address found for interface %s", name)
}

// BindAddr returns host:port to listen on. An empty iface binds all interfaces.
func BindAddr(port, iface string) (string, error) {
	if port == "" {
		port = DefaultBindPort
	}
	if iface == "" {
		addr := net.JoinHostPort("0.0.0.0", port)
		log.Printf("[INFO] binding to all interfaces (%s)", addr)
		return addr, nil
	}

	ipNet, err := interfaceIPv4(iface)
	if err != nil {
		return "", fmt.Errorf("%w, available interfaces: %v", err, availableInterfaces())
	}
	addr := net.JoinHostPort(ipNet.IP.String(), port)
	log.Printf("[INFO] binding to interface %s (%s)", iface, addr)
	return addr, nil
}

func availableInterfaces() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		names = append(names, iface.Name)
	}
	return names
}

// AllowedNetworks returns configured as is, or when empty localhost plus the
// subnets of every interface that carries a default route. Only local network
// traffic gets through then.
func AllowedNetworks(configured string) string {
	if configured != "" {
		return configured
	}

	subnets := []string{"127.0.0.0/8"}
	f, err := os.Open(routeTable)
	if err != nil {
		log.Printf("[WARN] could not read routing table, only localhost allowed: %v", err)
		return subnets[0]
	}
	defer f.Close()

	seen := map[string]bool{subnets[0]: true}
	for _, name := range defaultRouteInterfaces(f) {
		ipNet, err := interfaceIPv4(name)
		if err != nil {
			log.Printf("[WARN] could not get subnet for interface %s: %v", name, err)
			continue
		}
		subnet := (&net.IPNet{IP: ipNet.IP.Mask(ipNet.Mask), Mask: ipNet.Mask}).String()
		if !seen[subnet] {
			seen[subnet] = true
			subnets = append(subnets, subnet)
			log.Printf("[INFO] allowing subnet %s of default-route interface %s", subnet, name)
		}
	}
	return strings.Join(subnets, ",")
}

// ParseCIDRs parses a comma-separated CIDR list. Empty items are skipped.
func ParseCIDRs(list string) ([]*net.IPNet, error) {
	var networks []*net.IPNet
	for _, cidr := range strings.Split(list, ",") {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid network %q: %w", cidr, err)
		}
		networks = append(networks, network)
	}
	return networks, nil
}

func ipAllowed(ip net.IP, networks []*net.IPNet) bool {
	for _, n := range networks {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP parses "ip" or "ip:port".
func clientIP(remote string) net.IP {
	if ip := net.ParseIP(remote); ip != nil {
		return ip
	}
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return nil
	}
	return net.ParseIP(host)
}

// IPFilter rejects requests whose client address is outside networks.
func IPFilter(networks []*net.IPNet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := clientIP(c.IP())
		if ip == nil {
			log.Printf("[WARN] could not parse client IP %q", c.IP())
			return fiber.NewError(fiber.StatusForbidden, "Access denied: invalid client address")
		}
		if !ipAllowed(ip, networks) {
			log.Printf("[WARN] blocked request from %s", ip)
			return fiber.NewError(fiber.StatusForbidden, "Access denied: your IP is not in the allowed networks")
		}
		return c.Next()
	}
}

// NewIPFilter builds the filter from the configured network list, falling
// back to auto-detection when it is empty.
func NewIPFilter(configured string) (fiber.Handler, error) {
	allowed := AllowedNetworks(configured)
	networks, err := ParseCIDRs(allowed)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] IP filter allows %s", allowed)
	return IPFilter(networks), nil
}
