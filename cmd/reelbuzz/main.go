package main

import (
	"reelbuzz/cmd/handlers"
	"reelbuzz/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
