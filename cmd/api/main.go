package main

import (
	"fmt"
	"os"

	"github.com/PauloHFS/inkpress/internal/cmd"
)

func main() {
	if len(os.Args) < 2 {
		cmd.RunServer()
		return
	}

	switch os.Args[1] {
	case "server":
		cmd.RunServer()
	case "seed":
		cmd.RunSeed(os.Args[2:])
	case "migrate":
		cmd.RunMigrate()
	case "create-user":
		cmd.RunCreateUser(os.Args[2:])
	case "help", "-h", "--help":
		showHelp()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		showHelp()
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Inkpress - content management API")
	fmt.Println("Usage: ./inkpress [command] [flags]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  server       Start the API server (default)")
	fmt.Println("  migrate      Run database migrations")
	fmt.Println("  seed         Seed default categories and tags (--clear, --admin-password)")
	fmt.Println("  create-user  Create an account (--username --password [--email] [--role])")
	fmt.Println("  help         Show this help message")
}
