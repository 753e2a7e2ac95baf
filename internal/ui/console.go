// Package ui renders loop events: a plain console view and an optional
// websocket event feed for dashboards.
package ui

import (
	"fmt"
	"os"
	"sync"
)

// Console prints conversation events to stdout. Status lines overwrite
// each other; exchanges are printed permanently.
type Console struct {
	mu sync.Mutex
}

func NewConsole() *Console { return &Console{} }

func (c *Console) Status(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\r\033[K  %s", text)
}

func (c *Console) Display(userText, responseText string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(os.Stdout, "\r\033[K")
	if userText != "" {
		fmt.Fprintf(os.Stdout, "you:  %s\n", userText)
	}
	if responseText != "" {
		fmt.Fprintf(os.Stdout, "iris: %s\n", responseText)
	}
}

func (c *Console) Sleep(sleeping bool) {
	if sleeping {
		c.Status("zzz")
	} else {
		c.Status("awake")
	}
}

func (c *Console) Mute(muted bool) {
	if muted {
		c.Status("muted")
	} else {
		c.Status("listening")
	}
}
