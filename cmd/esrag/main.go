// cmd/esrag/main.go
package main

import "esrag/internal/cli"

func main() {
	cli.Execute()
}
