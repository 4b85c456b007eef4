package main

import (
	"flag"
	"fmt"
	"os"

	"task-service/config"
	"task-service/database"
	"task-service/server"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run modules (start, mail-worker, create-migration)")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", "./database/migrations", "Target directory for the new .sql file")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [... other options]")
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		server.StartServer(mustLoadConfig())
	case "mail-worker":
		server.StartMailWorker(mustLoadConfig())
	case "create-migration":
		if err := database.CreateMigration(*nameFlag, *dirFlag); err != nil {
			fmt.Println("create-migration:", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command %q\n", *commandFlag)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("config:", err)
		os.Exit(1)
	}
	return cfg
}
