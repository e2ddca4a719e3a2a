package main

import "property-service/commands"

func main() {
	commands.Execute()
}
