package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopweave/plugin-engine/internal/testinfra"
)

// Brings up the full local stack (MariaDB, Authorizer, engine image) and
// holds it until interrupted. Used for manual API poking and editor
// development against a real backend.
func main() {
	envFilename := flag.String("f", "", "path to the .env file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Run the plugin-engine dev stack in containers.

Usage:

  testcontainers [-f ENV_FILE_PATH]

Without -f the current process environment supplies DB_IMAGE, AUTHZ_IMAGE,
ports and credentials.
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *envFilename != "" {
		log.Printf("Loading environment variables from %s", *envFilename)
		if err := godotenv.Load(*envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var stack *testinfra.TestContainers
	go func() {
		var err error
		stack, err = testinfra.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatalf("Failed to create test containers: %v", err)
		}
	}()

	sig := <-sigs
	log.Printf("Received signal: %v, terminating test containers...", sig)
	if stack != nil {
		stack.Terminate(nil)
	}
}
