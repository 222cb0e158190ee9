package main

import "github.com/hendrawanp/pos-management/cmd"

func main() {
	cmd.Execute()
}
