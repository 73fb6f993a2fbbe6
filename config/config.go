// Package config loads the JSON settings file for a maze session.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazewalk/generator"
	"github.com/zucenko/mazewalk/model"
	"github.com/zucenko/mazewalk/pathfind"
	"github.com/zucenko/mazewalk/sim"
)

const (
	EnvPort = "PORT"
	EnvSeed = "MAZEWALK_SEED"

	DefaultPath = "mazewalk.json"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	GridWidth              int     `json:"grid_width"`
	GridHeight             int     `json:"grid_height"`
	CellSize               float64 `json:"cell_size"`
	GenerationStepsPerTick int     `json:"generation_steps_per_tick"`
	SolverStepsPerTick     int     `json:"solver_steps_per_tick"`
	Density                float64 `json:"density"`
	Algorithm              string  `json:"algorithm"`
	Heuristic              string  `json:"heuristic"`
	Seed                   int64   `json:"seed"`
	FrameRate              int     `json:"frame_rate"`
	MaxExpansions          int     `json:"max_expansions"`
	MovementScale          float64 `json:"movement_scale"`
	ObstacleInterval       float64 `json:"obstacle_interval"`
	LogLevel               string  `json:"log_level"`
	Port                   string  `json:"port"`
}

func Default() Config {
	return Config{
		GridWidth:              201,
		GridHeight:             101,
		CellSize:               8,
		GenerationStepsPerTick: 60,
		SolverStepsPerTick:     60,
		Density:                generator.DefaultDensity,
		Algorithm:              generator.RecursiveBacktracker.Name(),
		Heuristic:              pathfind.Manhattan.Name(),
		FrameRate:              60,
		MovementScale:          1,
		ObstacleInterval:       sim.DefaultObstacleInterval,
		LogLevel:               "info",
		Port:                   "8080",
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	config := Default()

	file, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Infof("config file %s not found, using defaults", path)
	case err != nil:
		return config, err
	default:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&config); err != nil {
			return config, fmt.Errorf("%w: parsing %s: %v", ErrInvalid, path, err)
		}
		log.Infof("configuration loaded from %s", path)
	}

	if port := os.Getenv(EnvPort); port != "" {
		config.Port = port
	}
	if seed := os.Getenv(EnvSeed); seed != "" {
		n, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return config, fmt.Errorf("%w: %s=%q", ErrInvalid, EnvSeed, seed)
		}
		config.Seed = n
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	if err := model.ValidateDimensions(c.GridWidth, c.GridHeight); err != nil {
		return err
	}
	if c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("%w: density %v outside [0,1]", ErrInvalid, c.Density)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("%w: frame_rate must be positive", ErrInvalid)
	}
	if c.GenerationStepsPerTick <= 0 || c.SolverStepsPerTick < 0 {
		return fmt.Errorf("%w: steps per tick", ErrInvalid)
	}
	if c.MaxExpansions < 0 {
		return fmt.Errorf("%w: max_expansions must not be negative", ErrInvalid)
	}
	if _, err := generator.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if _, err := pathfind.ParseHeuristic(c.Heuristic); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Session converts the file settings into a simulation config.
func (c Config) Session() (sim.Config, error) {
	algorithm, err := generator.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return sim.Config{}, err
	}
	heuristic, err := pathfind.ParseHeuristic(c.Heuristic)
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Width:                  c.GridWidth,
		Height:                 c.GridHeight,
		Algorithm:              algorithm,
		Heuristic:              heuristic,
		Density:                c.Density,
		GenerationStepsPerTick: c.GenerationStepsPerTick,
		SolverStepsPerTick:     c.SolverStepsPerTick,
		MaxExpansions:          c.MaxExpansions,
		MovementScale:          float32(c.MovementScale),
		ObstacleInterval:       float32(c.ObstacleInterval),
	}, nil
}

func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
