package main

import "github.com/zero-os/0-Flash/flashctl/cmd"

func main() {
	cmd.Execute()
}
