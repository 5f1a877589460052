package main

import "github.com/rl1809/room-allocator/internal/cli"

func main() {
	cli.Execute()
}
