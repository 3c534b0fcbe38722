// Package main provides the entry point for the isuhosts command.
package main

func main() {
	execute()
}
