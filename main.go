package main

import "github.com/kamal-hamza/fl-cli/cmd"

func main() {
	cmd.Execute()
}
