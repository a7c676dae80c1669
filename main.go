package main

import "github.com/maximumSHOT-HSE/gobash/cmd"

func main() {
	cmd.Execute()
}
