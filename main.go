package main

import "whdiag/cmd"

func main() {
	cmd.Execute()
}
