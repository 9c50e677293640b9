package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// TimeoutPolicy decides what happens when a side's per-turn clock runs out.
type TimeoutPolicy string

const (
	// TimeoutPass resets the clock and passes the turn. The elapsed time is
	// folded into the player's move-time statistic but nobody loses.
	TimeoutPass TimeoutPolicy = "pass"
	// TimeoutForfeit ends the game: the side that let the clock expire loses.
	TimeoutForfeit TimeoutPolicy = "forfeit"
)

// Weights tune the computer player's move scoring.
type Weights struct {
	WCapture int `yaml:"w_capture"`
	WPromote int `yaml:"w_promote"`
	WAdvance int `yaml:"w_advance"`
	WSafety  int `yaml:"w_safety"`
	WCenter  int `yaml:"w_center"`
}

type Config struct {
	HTTPAddr      string        `yaml:"http_addr"`
	TurnSeconds   int           `yaml:"turn_seconds"`
	TimeoutPolicy TimeoutPolicy `yaml:"timeout_policy"`
	AIName        string        `yaml:"ai_name"`
	RoomTTL       time.Duration `yaml:"room_ttl"`
	Weights       Weights       `yaml:"weights"`
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaults() Config {
	return Config{
		HTTPAddr:      ":8080",
		TurnSeconds:   60,
		TimeoutPolicy: TimeoutPass,
		AIName:        "Romano",
		RoomTTL:       time.Hour,
		Weights: Weights{
			WCapture: 400,
			WPromote: 250,
			WAdvance: 10,
			WSafety:  120,
			WCenter:  5,
		},
	}
}

// Load builds the configuration from defaults, then an optional YAML file
// named by CONFIG_FILE, then environment overrides, in that order.
func Load() Config {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	cfg.HTTPAddr = getenvStr("HTTP_ADDR", cfg.HTTPAddr)
	cfg.TurnSeconds = getenvInt("TURN_SECONDS", cfg.TurnSeconds)
	cfg.TimeoutPolicy = TimeoutPolicy(getenvStr("TIMEOUT_POLICY", string(cfg.TimeoutPolicy)))
	cfg.AIName = getenvStr("AI_NAME", cfg.AIName)

	if cfg.TimeoutPolicy != TimeoutForfeit {
		cfg.TimeoutPolicy = TimeoutPass
	}
	if cfg.TurnSeconds <= 0 {
		cfg.TurnSeconds = 60
	}
	return cfg
}
