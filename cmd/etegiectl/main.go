package main

import "etegie-bot/backend/internal/cli"

func main() {
	cli.Execute()
}
