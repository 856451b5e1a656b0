package main

import (
	"romhack-catalog/cmd"
	"romhack-catalog/logger"

	_ "go.uber.org/automaxprocs/maxprocs"
)

func main() {
	logger.InitLogger(logger.DefaultLogFile) // Initialize the logger first
	defer logger.Sync()                      // Ensure logs are flushed on exit
	cmd.Execute()
}
