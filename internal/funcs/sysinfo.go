package funcs

import (
	"fmt"
	"net"
	"os"
	"runtime"
	"syscall"
)

// systemInfo gathers a small status report about the host the assistant
// runs on.
func systemInfo() map[string]any {
	info := map[string]any{
		"os":   runtime.GOOS + "/" + runtime.GOARCH,
		"cpus": runtime.NumCPU(),
	}

	if host, err := os.Hostname(); err == nil {
		info["hostname"] = host
	}

	if ip := outboundIP(); ip != "" {
		info["ip_address"] = ip
	}

	var fs syscall.Statfs_t
	if err := syscall.Statfs("/", &fs); err == nil {
		total := fs.Blocks * uint64(fs.Bsize)
		free := fs.Bavail * uint64(fs.Bsize)
		info["disk_total"] = humanBytes(total)
		info["disk_free"] = humanBytes(free)
	}

	return info
}

// outboundIP returns the local address used to reach the internet. The
// dial never sends a packet; UDP "connect" just resolves routing.
func outboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return ""
	}
	return addr.IP.String()
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
