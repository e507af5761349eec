package main

import "github.com/corvid-systems/chip8vm/cmd"

func main() {
	cmd.Execute()
}
