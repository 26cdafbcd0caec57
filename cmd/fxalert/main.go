package main

import "fx-threshold-alerts/internal/cli"

func main() {
	cli.Execute()
}
