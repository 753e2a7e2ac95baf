// Package camera grabs webcam snapshots through an external capture
// tool.
package camera

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// Grabber shells out to fswebcam for each snapshot. Acquire/Release
// model the loop's exclusive ownership: the device is probed on Acquire
// so visual mode fails fast when no camera exists, and Release lets the
// assistant drop it before sleeping.
type Grabber struct {
	bin    string
	device string
	dir    string

	mu       sync.Mutex
	acquired bool
}

func NewGrabber(dir string) *Grabber {
	return &Grabber{bin: "fswebcam", device: "/dev/video0", dir: dir}
}

func (g *Grabber) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.acquired {
		return nil
	}
	if _, err := os.Stat(g.device); err != nil {
		return fmt.Errorf("camera unavailable: %w", err)
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	g.acquired = true
	return nil
}

func (g *Grabber) Release() {
	g.mu.Lock()
	g.acquired = false
	g.mu.Unlock()
}

// Capture takes one snapshot and returns the image path.
func (g *Grabber) Capture() (string, error) {
	g.mu.Lock()
	acquired := g.acquired
	g.mu.Unlock()
	if !acquired {
		if err := g.Acquire(); err != nil {
			return "", err
		}
		defer g.Release()
	}

	path := filepath.Join(g.dir, "capture_"+time.Now().Format("20060102_150405")+".png")
	out, err := exec.Command(g.bin, "-d", g.device, "--no-banner", "--png", "9", path).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %v: %s", g.bin, err, out)
	}
	return path, nil
}
