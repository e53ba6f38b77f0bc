// Command renderer reads a scene configuration file and writes one
// gamma-encoded PNG frame: renderer [config.yaml].
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Fidelxyz/cpu-renderer/internal/config"
	"github.com/Fidelxyz/cpu-renderer/internal/logging"
	"github.com/Fidelxyz/cpu-renderer/internal/render"
	"github.com/Fidelxyz/cpu-renderer/internal/texture"
	"github.com/Fidelxyz/cpu-renderer/internal/workerpool"
)

const outputPath = "out.png"

func main() {
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	configPath := config.DefaultPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	if err := run(configPath); err != nil {
		fmt.Fprintln(os.Stderr, "renderer:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	sc, err := render.BuildScene(cfg)
	if err != nil {
		return err
	}

	pool := workerpool.New(cfg.ThreadsNum)
	defer pool.Close()

	logging.Logger().Info("scene loaded", "objects", len(sc.Objects), "lights", len(sc.Lights), "workers", pool.Workers())

	frame := render.Render(sc, pool)

	if err := texture.SaveRGBPNG(outputPath, frame); err != nil {
		return err
	}
	logging.Logger().Info("frame written", "path", outputPath)
	return nil
}
