package main

import "docsum/internal/cli"

func main() {
	cli.Execute()
}
