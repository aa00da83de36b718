package main

import (
	"os"

	"leveragebot/pkg/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		utils.L().Error("Command failed", utils.Err(err))
		_ = utils.L().Sync()
		os.Exit(1)
	}
}
