package core

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host string
		Port string
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	// DutyConfig carries the duty subtype catalogs and the supervisor
	// allow-list. They are injected into the eligibility policy and the
	// coordinator at construction time rather than hard-coded at the call
	// sites.
	DutyConfig struct {
		EligibleStaffPosts   []string
		PresentationSubTypes []string
		ReportSubTypes       []string
		AllowAllSupervisors  bool
	}

	Config struct {
		Env             string
		AppName         string
		Build           string
		Debug           bool
		TestMode        bool
		FrontendBaseURL string

		SendgridAPIKey       string
		RollbarToken         string
		DefaultFromEmailAddr string

		Server   ServerConfig
		Database DatabaseConfig
		Duties   DutyConfig
	}
)

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmailAddr}
}

// LoadConfig reads configuration from the environment (prefixed with the
// current ENV name) with sane defaults, loading a config/.env.<env> file
// first if one exists.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("appName", "Projeval")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8000")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.name", "projeval")
	v.SetDefault("database.user", "projeval")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("duties.eligibleStaffPosts", defaultEligibleStaffPosts)
	v.SetDefault("duties.presentationSubTypes", defaultPresentationSubTypes)
	v.SetDefault("duties.reportSubTypes", defaultReportSubTypes)
	v.SetDefault("duties.allowAllSupervisors", false)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:                  env,
		AppName:              v.GetString("appName"),
		Build:                v.GetString("build"),
		Debug:                v.GetBool("debug"),
		TestMode:             v.GetBool("testMode"),
		FrontendBaseURL:      v.GetString("frontendBaseURL"),
		SendgridAPIKey:       v.GetString("sendgridApiKey"),
		RollbarToken:         v.GetString("rollbarToken"),
		DefaultFromEmailAddr: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetString("server.port"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Duties: DutyConfig{
			EligibleStaffPosts:   v.GetStringSlice("duties.eligibleStaffPosts"),
			PresentationSubTypes: v.GetStringSlice("duties.presentationSubTypes"),
			ReportSubTypes:       v.GetStringSlice("duties.reportSubTypes"),
			AllowAllSupervisors:  v.GetBool("duties.allowAllSupervisors"),
		},
	}
	return conf, nil
}

var (
	defaultEligibleStaffPosts = []string{
		"Chancellor",
		"Vice-Chancellor",
		"Dean",
		"Department Chair/Head",
		"Professor",
		"Associate Professor",
		"Assistant Professor",
	}
	defaultPresentationSubTypes = []string{"proposal", "progress1", "progress2", "final"}
	defaultReportSubTypes       = []string{
		"topicAssessmentForm",
		"projectCharter",
		"statusDocument1",
		"logBook",
		"proposalDocument",
		"statusDocument2",
		"finalThesis",
	}
)
