package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"iris/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon control socket")
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: iris-ctl [--socket path] <wake|sleep|mute|unmute|shutdown|ask TEXT...|say TEXT...>")
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: args[0]}
	if msg.Cmd == "ask" || msg.Cmd == "say" {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, msg.Cmd+" needs text")
			os.Exit(2)
		}
		msg.Text = strings.Join(args[1:], " ")
	}

	if err := ipc.Send(*socket, msg); err != nil {
		fmt.Fprintln(os.Stderr, "iris not running:", err)
		os.Exit(1)
	}
}
