package main

import "github.com/sanfx/clinc-app/cmd"

func main() {
	cmd.Execute()
}
