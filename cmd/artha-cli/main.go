package main

import "artha/internal/cli"

func main() {
	cli.Execute()
}
