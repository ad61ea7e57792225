// Package main implements the main function
package main

import "github.com/diogovalentte/mangapark-adapter/cmd"

func main() {
	cmd.Execute()
}
