package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/app/server"
)

func init() {
	loadEnvVariables()
}

func main() {
	s := server.NewServer()

	go s.Run()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Println("Received shutdown signal, shutting down server...")
	s.Stop()
}

func loadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}
