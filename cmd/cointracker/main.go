package main

import "coin-tracker/internal/cli"

func main() {
	cli.Execute()
}
