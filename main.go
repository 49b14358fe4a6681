package main

import "ceiba/cmd"

func main() {
	cmd.Execute()
}
