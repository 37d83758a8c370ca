package main

import (
	"log"

	"github.com/m3rciful/nbrbbot/core/cmd"
	coreconfig "github.com/m3rciful/nbrbbot/core/config"
	"github.com/m3rciful/nbrbbot/internal/app"
)

func main() {
	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return coreconfig.Load(path)
		},
		Bootstrap: app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("nbrbbot: %v", err)
	}
}
