package main

import "github.com/multigit/ghswitch/cmd"

func main() {
	cmd.Execute()
}
