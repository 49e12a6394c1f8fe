package main

import "strings-toolkit/internal/cli"

func main() {
	cli.Execute()
}
