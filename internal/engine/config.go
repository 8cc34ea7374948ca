package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска движка
type Config struct {
	// Port - TCP-порт HTTP/WS сервера.
	Port int `yaml:"port"`

	// Seed - мастер-зерно генерации мира. 0 = случайное.
	Seed int64 `yaml:"seed"`

	// WorldWidth/WorldHeight - размеры грида.
	WorldWidth  int `yaml:"worldWidth"`
	WorldHeight int `yaml:"worldHeight"`

	// ActionsFile - путь к YAML-файлу декларативных действий.
	// Пустой = только встроенные действия.
	ActionsFile string `yaml:"actionsFile"`

	// ViewRadius - радиус поля зрения наблюдателей.
	ViewRadius int `yaml:"viewRadius"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Port:        8080,
		Seed:        time.Now().UnixNano(),
		WorldWidth:  30,
		WorldHeight: 20,
		ViewRadius:  8,
	}
}

// LoadConfig читает YAML-файл поверх значений по умолчанию.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: парсинг %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: невалидный порт %d", c.Port)
	}
	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		return fmt.Errorf("config: невалидный размер мира %dx%d", c.WorldWidth, c.WorldHeight)
	}
	if c.ViewRadius < 0 {
		return fmt.Errorf("config: отрицательный радиус зрения %d", c.ViewRadius)
	}
	return nil
}
