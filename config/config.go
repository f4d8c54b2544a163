package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/lai323/kanjidrill/kanji"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	DbFileName      = "kanjidrill.db"
	LogFileName     = "kanjidrill.log"
	DatasetFileName = "kanji.json"
)

type Config struct {
	StoragePath    string `yaml:"StoragePath" validate:"required"`
	DatasetPath    string `yaml:"DatasetPath,omitempty"`
	DatasetURL     string `yaml:"DatasetURL" validate:"omitempty,url"`
	System         string `yaml:"System" validate:"oneof=JLPT WaniKani"`
	Drill          string `yaml:"Drill" validate:"oneof=Meaning Reading"`
	JLPTLevels     []int  `yaml:"JLPTLevels" validate:"dive,min=1,max=5"`
	WaniKaniLevels []int  `yaml:"WaniKaniLevels" validate:"dive,min=1,max=60"`
	Count          int    `yaml:"Count" validate:"min=1"`
	// FeedbackDelay is how long the right/wrong notice stays up, in ms.
	FeedbackDelay int    `yaml:"FeedbackDelay" validate:"min=0,max=10000"`
	LookupURL     string `yaml:"LookupURL" validate:"omitempty,url"` // base url of the online dictionary
	Proxy         string `yaml:"Proxy,omitempty" validate:"omitempty,url"`
	LogLevel      string `yaml:"LogLevel" validate:"omitempty,oneof=debug info warn error"`
}

func (c Config) DbFile() string {
	return path.Join(c.StoragePath, DbFileName)
}

func (c Config) LogFile() string {
	return path.Join(c.StoragePath, LogFileName)
}

// DatasetFile is where a downloaded dataset is kept.
func (c Config) DatasetFile() string {
	return path.Join(c.StoragePath, DatasetFileName)
}

// Dataset picks the dataset to load: DatasetPath when set, else a downloaded
// dataset in storage. An empty result means the bundled one.
func (c Config) Dataset(fs afero.Fs) string {
	if c.DatasetPath != "" {
		return c.DatasetPath
	}
	if ok, _ := afero.Exists(fs, c.DatasetFile()); ok {
		return c.DatasetFile()
	}
	return ""
}

// Levels returns the configured levels of the configured system.
func (c Config) Levels() []int {
	if c.System == "WaniKani" {
		return c.WaniKaniLevels
	}
	return c.JLPTLevels
}

var (
	DefaultConfig     Config
	DefaultConfigDir  string
	DefaultConfigPath string
	DefaultStorageDir string

	validate = validator.New()
)

func init() {
	var err error
	DefaultConfigPath, err = xdg.ConfigFile("kanjidrill/kanjidrill.yaml")
	if err != nil {
		log.Fatal(err)
	}
	DefaultConfigDir = path.Dir(DefaultConfigPath)
	DefaultStorageDir = path.Join(xdg.DataHome, "kanjidrill")
	DefaultConfig = New(DefaultStorageDir)
}

// New returns the default settings with storage under dir.
func New(dir string) Config {
	return Config{
		StoragePath:    dir,
		System:         "JLPT",
		Drill:          "Meaning",
		JLPTLevels:     []int{5},
		WaniKaniLevels: []int{1},
		Count:          4,
		FeedbackDelay:  1500,
		DatasetURL:     "https://raw.githubusercontent.com/davidluzgouveia/kanji-data/master/kanji.json",
		LookupURL:      "https://jisho.org",
		LogLevel:       "info",
	}
}

type initConfigErr struct {
	s string
}

func (e *initConfigErr) Error() string {
	return e.s
}

func newInitConfigErr(err error) error {
	return &initConfigErr{
		s: fmt.Sprintf("Init config error: %s", err.Error()),
	}
}

func createDefaultFile(fs afero.Fs, configPath string, cfg Config) error {
	err := fs.MkdirAll(path.Dir(configPath), 0755)
	if err != nil {
		return err
	}

	exist, err := afero.Exists(fs, configPath)
	if err != nil {
		return err
	}

	if !exist {
		handle, err := fs.Create(configPath)
		if err != nil {
			return err
		}
		defer handle.Close()
		err = yaml.NewEncoder(handle).Encode(&cfg)
		if err != nil {
			return err
		}
	}
	return nil
}

// InitConfig reads the config file. Without configPathOption the default file
// is used and created on first run. Fields missing from the file keep their
// defaults.
func InitConfig(fs afero.Fs, configPathOption string) (Config, error) {
	config := DefaultConfig
	var configfile string

	if configPathOption == "" {
		configfile = DefaultConfigPath
		if err := createDefaultFile(fs, configfile, DefaultConfig); err != nil {
			return config, newInitConfigErr(err)
		}
	} else {
		exist, err := afero.Exists(fs, configPathOption)
		if err != nil {
			return config, newInitConfigErr(err)
		}
		if !exist {
			return config, &initConfigErr{
				s: fmt.Sprintf("Init config error: %s not exist", configPathOption),
			}
		}
		configfile = configPathOption
	}

	handle, err := fs.Open(configfile)
	if err != nil {
		return config, newInitConfigErr(err)
	}
	defer handle.Close()
	// an empty file keeps every default
	err = yaml.NewDecoder(handle).Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return config, newInitConfigErr(err)
	}
	config.normalize()
	if err := config.Validate(); err != nil {
		return config, newInitConfigErr(err)
	}
	if err := fs.MkdirAll(config.StoragePath, 0755); err != nil {
		return config, newInitConfigErr(err)
	}
	return config, nil
}

// normalize accepts the spellings the command line accepts, e.g. "wk" or
// "reading". Unknown values are left for Validate to reject.
func (c *Config) normalize() {
	if s, err := kanji.ParseSystem(c.System); err == nil {
		c.System = string(s)
	}
	if d, err := kanji.ParseDrill(c.Drill); err == nil {
		c.Drill = string(d)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

func GetStringOption(option, value string) string {
	if option != "" {
		return option
	}
	return value
}

func GetIntOption(option, value int) int {
	if option > 0 {
		return option
	}
	return value
}
