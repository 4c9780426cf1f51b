/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/voxelcraft/engine"
	"github.com/spaghettifunk/voxelcraft/engine/config"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/testbed"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the engine configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogError("failed to load config: %s", err)
		os.Exit(1)
	}
	if err := core.SetLogLevel(cfg.Log.Level); err != nil {
		core.LogError(err.Error())
		os.Exit(1)
	}

	tb := testbed.NewTestGame()

	e, err := engine.New(cfg, tb.Game)
	if err != nil {
		panic(err)
	}

	if err := e.Initialize(); err != nil {
		core.LogError("engine initialization failed: %s", err)
		_ = e.Shutdown()
		os.Exit(1)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the loop owns the window, so the handler only asks it to stop
	go func() {
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("engine shutdown failed: %s", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
