package main

import "github.com/capitalsync-io/capsync/cmd/cli"

func main() {
	cli.Execute()
}
