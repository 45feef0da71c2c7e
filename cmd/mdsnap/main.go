package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/temirov/mdsnap/internal/cli"
	"github.com/temirov/mdsnap/internal/utils"
)

// main is the entry point for the mdsnap command.
func main() {
	// A missing .env is normal; variables may come from the real environment.
	_ = godotenv.Load(utils.DotEnvFileName)

	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
}
