package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"murmur/internal/ipc"
)

func main() {
	socketPath := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	text := strings.Join(cli.Args(), " ")

	err := ipc.Send(*socketPath, ipc.ControlMessage{Cmd: ipc.CmdUtter, Text: text})
	if err != nil {
		fmt.Println("murmur not running:", err)
		os.Exit(1)
	}
}
