package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"gridworld-server/internal/engine"
	"gridworld-server/internal/rules"
	"gridworld-server/internal/server"
	"gridworld-server/internal/version"
	"gridworld-server/pkg/logger"
	"gridworld-server/pkg/worldgen"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var configPath string
	var seed int64
	var port int
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.Int64Var(&seed, "seed", 0, "World seed (0 for random)")
	flag.IntVar(&port, "port", 0, "HTTP/WS port (overrides config)")
	flag.Parse()

	logger.Log.Info("Starting gridworld server...")
	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			logger.Log.Fatal("Config error: ", err)
		}
		cfg = loaded
	}
	// Флаги перекрывают файл
	if seed != 0 {
		cfg.Seed = seed
	}
	if port != 0 {
		cfg.Port = port
	}
	logger.Log.Infof("Master seed: %d", cfg.Seed)

	// 2. Сборка мира
	world, character, err := worldgen.Build(cfg.WorldWidth, cfg.WorldHeight, cfg.Seed)
	if err != nil {
		logger.Log.Fatal("World build error: ", err)
	}
	logger.Log.Infof("Default character: %s", character.ID)

	// 3. Реестр действий: встроенные + декларативные из файла
	registry := rules.NewRegistry()
	if err := rules.RegisterBuiltins(registry, world); err != nil {
		logger.Log.Fatal("Builtin actions error: ", err)
	}
	if cfg.ActionsFile != "" {
		if err := registry.LoadFile(cfg.ActionsFile); err != nil {
			logger.Log.Fatal("Actions file error: ", err)
		}
		logger.Log.Infof("Loaded actions from %s", cfg.ActionsFile)
	}

	// 4. Инициализация движка
	service := engine.NewService(cfg, world, registry)
	service.Start()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 5. Запуск сервера
	srv := server.New(service, cfg.Port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")
}
