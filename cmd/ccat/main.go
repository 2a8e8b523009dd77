package main

import "github.com/vanpelt/ccat/internal/cmd"

func main() {
	cmd.Execute()
}
