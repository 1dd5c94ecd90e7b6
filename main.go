package main

import "github.com/soliddigital/mpesa-stk-gateway/cmd"

func main() {
	cmd.Execute()
}
