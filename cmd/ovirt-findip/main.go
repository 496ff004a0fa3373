package main

import "github.com/alechenninger/ovirt-findip/internal/cli"

var Version = "dev" // set by ldflags

func main() {
	cli.Execute(Version)
}
