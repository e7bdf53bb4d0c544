package main

import "github.com/issuewatch/issuewatch/internal/cli"

func main() {
	cli.Execute()
}
