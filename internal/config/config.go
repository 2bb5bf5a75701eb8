package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	DefaultFile        = "sentiment.yaml"
	DefaultDataset     = "IMDB Dataset.csv"
	DefaultModel       = "sentiment_model.snt"
	DefaultText        = "This was a very bad steak"
	DefaultSeed        = 42
	DefaultTestFrac    = 0.2
	DefaultCacheSize   = 1024
	DefaultLogLevel    = "info"
	DefaultNGram       = 2
	DefaultMinDF       = 2
	DefaultMaxFeatures = 1 << 16
	DefaultL2          = 1e-4
	DefaultMaxIter     = 200
)

type Config struct {
	Dataset      string  `yaml:"dataset"`
	Model        string  `yaml:"model"`
	TestFraction float64 `yaml:"test_fraction"`
	Seed         int64   `yaml:"seed"`
	Evaluate     bool    `yaml:"evaluate"`
	DefaultText  string  `yaml:"default_text"`
	CacheSize    int     `yaml:"cache_size"`

	Featurizer struct {
		NGram       int `yaml:"ngram"`
		MinDF       int `yaml:"min_df"`
		MaxFeatures int `yaml:"max_features"`
	} `yaml:"featurizer"`

	Trainer struct {
		L2            float64 `yaml:"l2"`
		MaxIterations int     `yaml:"max_iterations"`
		Workers       int     `yaml:"workers"`
	} `yaml:"trainer"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path and fills unset keys with defaults. A missing file is not an
// error: the defaults are returned.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open config %s", path)
	}
	defer file.Close()

	var c Config
	if err := yaml.NewDecoder(file).Decode(&c); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return errors.Errorf("test_fraction must be in (0,1), got %v", c.TestFraction)
	}
	if c.Featurizer.NGram < 1 {
		return errors.Errorf("featurizer.ngram must be >= 1, got %d", c.Featurizer.NGram)
	}
	if c.Trainer.L2 < 0 {
		return errors.Errorf("trainer.l2 must be >= 0, got %v", c.Trainer.L2)
	}
	return nil
}

// DatabasePath resolves the run database location. An empty database.path
// means the user cache directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user cache dir")
	}
	return filepath.Join(cacheDir, "sentiment", "sentiment.db"), nil
}

func (c *Config) applyDefaults() {
	if c.Dataset == "" {
		c.Dataset = DefaultDataset
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.TestFraction == 0 {
		c.TestFraction = DefaultTestFrac
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.DefaultText == "" {
		c.DefaultText = DefaultText
	}
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.Featurizer.NGram == 0 {
		c.Featurizer.NGram = DefaultNGram
	}
	if c.Featurizer.MinDF == 0 {
		c.Featurizer.MinDF = DefaultMinDF
	}
	if c.Featurizer.MaxFeatures == 0 {
		c.Featurizer.MaxFeatures = DefaultMaxFeatures
	}
	if c.Trainer.L2 == 0 {
		c.Trainer.L2 = DefaultL2
	}
	if c.Trainer.MaxIterations == 0 {
		c.Trainer.MaxIterations = DefaultMaxIter
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
