package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host      string    `koanf:"host"`
	Port      int       `koanf:"port"`
	Google    Google    `koanf:"google"`
	Database  Database  `koanf:"db"`
	Redis     Redis     `koanf:"redis"`
	Dashboard Dashboard `koanf:"dashboard"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

// Database pool bounds of zero keep the pgx defaults.
type Database struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Pass     string `koanf:"pass"`
	Name     string `koanf:"name"`
	Schema   string `koanf:"schema"`
	MaxConns int    `koanf:"maxconns"`
	MinConns int    `koanf:"minconns"`
}

type Redis struct {
	Enabled bool   `koanf:"enabled"`
	Url     string `koanf:"url"`
}

// Dashboard tunes the progress endpoints. FetchConcurrency bounds the
// submission requests in flight per course; DefaultTimezone applies to users
// without a timezone setting.
type Dashboard struct {
	FetchConcurrency int           `koanf:"fetchconcurrency"`
	CacheTTL         time.Duration `koanf:"cachettl"`
	DefaultTimezone  string        `koanf:"defaulttimezone"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Port: 8181,
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "classroom",
			Pass:     "",
			Name:     "classroom",
			Schema:   "classroom",
			MaxConns: 10,
			MinConns: 2,
		},
		Redis: Redis{
			Enabled: false,
			Url:     "redis://localhost:6379/0",
		},
		Dashboard: Dashboard{
			FetchConcurrency: 8,
			CacheTTL:         time.Minute,
			DefaultTimezone:  "UTC",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CLASSROOM_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CLASSROOM_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
