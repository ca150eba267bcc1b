package main

import "ecsctl/cmd"

func main() {
	cmd.Execute()
}
