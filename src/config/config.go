// Package config implements the configurations for the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// GlobalConfigs is a pointer to the Configs struct that holds all the configurations.
// It is used to access the configurations throughout the application.
// Should be initialized by the SetConfigs function.
var GlobalConfigs = &Configs{
	API:       &APIConfigs{},
	Log:       &LogConfigs{},
	MangaPark: &MangaParkConfigs{},
}

// Configs is a struct that holds all the configurations.
type Configs struct {
	API       *APIConfigs
	Log       *LogConfigs
	MangaPark *MangaParkConfigs
}

// APIConfigs is a struct that holds the API configurations.
type APIConfigs struct {
	Port        string
	LogLevelInt int
}

// LogConfigs is a struct that holds the log file configurations.
// If FilePath is empty, logs go to stdout.
type LogConfigs struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// DecryptMode is how the chapter image tokens are decrypted
type DecryptMode string

const (
	// DecryptModeScript runs the fetched CryptoJS runtime in an embedded JS engine
	DecryptModeScript DecryptMode = "script"
	// DecryptModeNative decrypts the tokens in Go
	DecryptModeNative DecryptMode = "native"
	// DecryptModeBrowser runs the fetched CryptoJS runtime in a headless browser
	DecryptModeBrowser DecryptMode = "browser"
)

// MangaParkConfigs is a struct that holds the configurations for the MangaPark sources.
type MangaParkConfigs struct {
	BaseURL               string
	Languages             []string
	CryptoJSURL           string
	DecryptMode           DecryptMode
	RequestTimeout        time.Duration
	ScriptTimeout         time.Duration
	CloudflareBypass      bool
	UserAgent             string
	SkipMalformedChapters bool
}

var (
	DefaultMangaParkBaseURL = "https://mangapark.net"
	DefaultCryptoJSURL      = "https://cdnjs.cloudflare.com/ajax/libs/crypto-js/4.0.0/crypto-js.min.js"
	DefaultUserAgent        = "Mozilla/5.0 (X11; Linux x86_64; rv:30.0) Gecko/20100101 Firefox/30.0"
	ValidDecryptModes       = []DecryptMode{DecryptModeScript, DecryptModeNative, DecryptModeBrowser}
)

// SetConfigs sets the configurations based on a .env file if provided or using environment variables.
func SetConfigs(filePath string) error {
	var err error

	if filePath != "" {
		err = godotenv.Load(filePath)
		if err != nil {
			return fmt.Errorf("error loading env file '%s': %s", filePath, err)
		}
	}

	logLevel := zerolog.InfoLevel
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr != "" {
		logLevel, err = zerolog.ParseLevel(logLevelStr)
		if err != nil {
			return fmt.Errorf("error parsing error level '%s': %s", logLevelStr, err)
		}
	}
	GlobalConfigs.API.LogLevelInt = int(logLevel)
	GlobalConfigs.API.Port = os.Getenv("API_PORT")
	if GlobalConfigs.API.Port == "" {
		GlobalConfigs.API.Port = "8080"
	}

	GlobalConfigs.Log.FilePath = os.Getenv("LOG_FILE")
	GlobalConfigs.Log.MaxSizeMB, err = getEnvInt("LOG_MAX_SIZE_MB", 50)
	if err != nil {
		return err
	}
	GlobalConfigs.Log.MaxBackups, err = getEnvInt("LOG_MAX_BACKUPS", 3)
	if err != nil {
		return err
	}

	mp := GlobalConfigs.MangaPark

	mp.BaseURL = strings.TrimSuffix(os.Getenv("MANGAPARK_BASE_URL"), "/")
	if mp.BaseURL == "" {
		mp.BaseURL = DefaultMangaParkBaseURL
	}

	mp.Languages = []string{"en"}
	if envLanguages := os.Getenv("MANGAPARK_LANGUAGES"); envLanguages != "" {
		mp.Languages, err = parseLanguages(envLanguages)
		if err != nil {
			return err
		}
	}

	mp.CryptoJSURL = os.Getenv("MANGAPARK_CRYPTO_JS_URL")
	if mp.CryptoJSURL == "" {
		mp.CryptoJSURL = DefaultCryptoJSURL
	}

	mp.DecryptMode = DecryptModeScript
	if envMode := os.Getenv("MANGAPARK_DECRYPT_MODE"); envMode != "" {
		mp.DecryptMode, err = parseDecryptMode(envMode)
		if err != nil {
			return err
		}
	}

	requestTimeout, err := getEnvInt("MANGAPARK_REQUEST_TIMEOUT_SECONDS", 30)
	if err != nil {
		return err
	}
	mp.RequestTimeout = time.Duration(requestTimeout) * time.Second

	scriptTimeout, err := getEnvInt("MANGAPARK_SCRIPT_TIMEOUT_SECONDS", 10)
	if err != nil {
		return err
	}
	mp.ScriptTimeout = time.Duration(scriptTimeout) * time.Second

	mp.CloudflareBypass, err = getEnvBool("MANGAPARK_CLOUDFLARE_BYPASS", false)
	if err != nil {
		return err
	}
	mp.SkipMalformedChapters, err = getEnvBool("MANGAPARK_SKIP_MALFORMED_CHAPTERS", false)
	if err != nil {
		return err
	}

	mp.UserAgent = os.Getenv("MANGAPARK_USER_AGENT")
	if mp.UserAgent == "" {
		mp.UserAgent = DefaultUserAgent
	}

	return nil
}

// LogLevel returns the configured zerolog level
func (c *Configs) LogLevel() zerolog.Level {
	return zerolog.Level(c.API.LogLevelInt)
}

func parseLanguages(value string) ([]string, error) {
	languages := []string{}
	for _, lang := range strings.Split(value, ",") {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("error parsing MANGAPARK_LANGUAGES '%s': invalid language '%s': %s", value, lang, err)
		}
		languages = append(languages, tag.String())
	}
	if len(languages) == 0 {
		return nil, fmt.Errorf("error parsing MANGAPARK_LANGUAGES '%s': no language provided", value)
	}

	return languages, nil
}

func parseDecryptMode(value string) (DecryptMode, error) {
	for _, mode := range ValidDecryptModes {
		if string(mode) == strings.ToLower(value) {
			return mode, nil
		}
	}

	return "", fmt.Errorf("error parsing MANGAPARK_DECRYPT_MODE '%s': must be one of %v", value, ValidDecryptModes)
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("error converting %s '%s' to int: %s", key, value, err)
	}
	if i < 0 {
		return 0, fmt.Errorf("error parsing %s '%s': must not be negative", key, value)
	}

	return i, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	switch value {
	case "":
		return defaultValue, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("error parsing %s '%s': must be 'true' or 'false'", key, value)
	}
}
