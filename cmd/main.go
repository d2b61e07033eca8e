package main

import (
	"log"
	"net/http"
	"os"

	"KarmaTally/config"
	"KarmaTally/db"
	"KarmaTally/engine"
	"KarmaTally/scheduler"
	"KarmaTally/utils"
)

func main() {
	config.LoadEnv()
	db.Init()
	utils.InitRedis()

	engine.CooldownWindow = config.CooldownWindow()
	engine.ConfirmDelay = config.ConfirmDelay()
	engine.ConfirmMinMessages = config.ConfirmMinMessages()
	engine.SweepBatchLimit = config.SweepBatchLimit()

	go scheduler.StartScheduler()
	router := SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server running on port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal("Server failed:", err)
	}
}
