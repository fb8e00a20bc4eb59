package main

import "github.com/spent-dev/spent/cmd"

func main() {
	cmd.Execute()
}
