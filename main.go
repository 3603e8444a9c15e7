package main

import "kpcoilprice/cmd"

var version string // set by the compiler

func main() {
	cmd.Execute(version)
}
