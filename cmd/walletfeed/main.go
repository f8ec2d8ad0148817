package main

import "walletfeed/internal/cmd"

func main() {
	cmd.Run()
}
