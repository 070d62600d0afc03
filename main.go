package main

import "github.com/dotcommander/igbcscore/cmd"

func main() {
	cmd.Execute()
}
