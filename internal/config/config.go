package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
	"pokertable-server/internal/util"
)

// Config provides configuration for the poker table server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	// Tables are opened when the server starts
	Tables []string `yaml:"tables" envconfig:"tables"`
	Table  Table    `yaml:"table" envconfig:"table"`
}

// Table holds the defaults of every table the server opens
type Table struct {
	Subtype        string        `yaml:"subtype" envconfig:"subtype"`
	Seats          int           `yaml:"seats" envconfig:"seats"`
	SmallBlind     int           `yaml:"smallBlind" envconfig:"small_blind"`
	BigBlind       int           `yaml:"bigBlind" envconfig:"big_blind"`
	Ante           int           `yaml:"ante" envconfig:"ante"`
	BuyIn          int           `yaml:"buyIn" envconfig:"buy_in"`
	MinPlayers     int           `yaml:"minPlayers" envconfig:"min_players"`
	// BetTimeout of zero acts for the player at once, a negative one waits forever
	BetTimeout     time.Duration `yaml:"betTimeout" envconfig:"bet_timeout"`
	InterHandDelay time.Duration `yaml:"interHandDelay" envconfig:"inter_hand_delay"`
	RevealDelay    time.Duration `yaml:"revealDelay" envconfig:"reveal_delay"`
	ChipUnit       int           `yaml:"chipUnit" envconfig:"chip_unit"`
	Modifiers      struct {
		AnteLevels      []int `yaml:"anteLevels" envconfig:"ante_levels"`
		BombPotEvery    int   `yaml:"bombPotEvery" envconfig:"bomb_pot_every"`
		BombPotMultiple int   `yaml:"bombPotMultiple" envconfig:"bomb_pot_multiple"`
		DoubleBoard     bool  `yaml:"doubleBoard" envconfig:"double_board"`
		HiLow           bool  `yaml:"hiLow" envconfig:"hi_low"`
		SevenDeuce      int   `yaml:"sevenDeuce" envconfig:"seven_deuce"`
	} `yaml:"modifiers" envconfig:"modifiers"`
}

var config Config

// Default returns the configuration before the file and the environment are applied
func Default() Config {
	var c Config
	c.MigrationsPath = "./sql"
	c.Log.Level = "info"
	c.Tables = []string{"Main"}
	c.Table = Table{
		Subtype:        "holdem",
		Seats:          9,
		SmallBlind:     25,
		BigBlind:       50,
		BuyIn:          5000,
		MinPlayers:     2,
		BetTimeout:     30 * time.Second,
		InterHandDelay: 5 * time.Second,
		RevealDelay:    time.Second,
		ChipUnit:       25,
	}

	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// Values are read from the defaults, then the YAML file, then the environment.
func Load() error {
	configFile := util.Getenv("PTS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil {
		return err
	}
	defer file.Close()

	cfg := Default()
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return err
	}

	if err := envconfig.Process("pts", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
