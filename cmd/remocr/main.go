package main

import "github.com/MeKo-Tech/remocr/cmd/remocr/cmd"

func main() {
	cmd.Execute()
}
