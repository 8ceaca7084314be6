package main

import "patrician/cmd"

func main() {
	cmd.Execute()
}
