package main

import "github.com/dcabrera/portfolio/cmd"

func main() {
	cmd.Execute()
}
