package main

import "github.com/diogo/promptdeck/internal/commands"

func main() {
	commands.Execute()
}
