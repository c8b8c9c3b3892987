package main

import "github.com/AndrewHUNGNguyen/devx-events/internal/cli"

func main() {
	cli.Execute()
}
