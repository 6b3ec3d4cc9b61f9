package main

import (
	cmd "github.com/rohmanhakim/crawl-gate/internal/cli"
)

func main() {
	cmd.Execute()
}
