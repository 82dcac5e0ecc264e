package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"altbook/internal/model"
)

// Settings holds global booking-run options.
type Settings struct {
	// Headless controls the browser mode. Defaults to true when omitted.
	Headless *bool `yaml:"headless"`
}

// Config is the weekly class configuration (classes.yaml).
type Config struct {
	Classes  []model.ClassDefinition `yaml:"classes"`
	Settings Settings                `yaml:"settings"`
}

// Headless resolves the effective headless setting.
func (c *Config) Headless() bool {
	if c.Settings.Headless == nil {
		return true
	}
	return *c.Settings.Headless
}

// Load reads and validates the weekly class configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	for i, cls := range cfg.Classes {
		var missing []string
		if cls.Day == "" {
			missing = append(missing, "day")
		}
		if cls.Time == "" {
			missing = append(missing, "time")
		}
		if cls.Name == "" {
			missing = append(missing, "name")
		}
		if cls.User == "" {
			missing = append(missing, "user")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("class %d: missing fields: %s", i+1, strings.Join(missing, ", "))
		}
	}

	return &cfg, nil
}

// User holds per-user site credentials and notification targets. The core
// treats all values as opaque strings.
type User struct {
	Email              string `yaml:"altea_email"`
	Password           string `yaml:"altea_password"`
	NotificationEmail  string `yaml:"notification_email"`
	CalendarWebhookURL string `yaml:"calendar_webhook_url"`
}

// Users maps a user name from classes.yaml onto credentials.
type Users map[string]User

// LoadUsers reads the user credentials file (users.yaml).
func LoadUsers(path string) (Users, error) {
	if path == "" {
		return nil, errors.New("users path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	var doc struct {
		Users Users `yaml:"users"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse users: %w", err)
	}
	if doc.Users == nil {
		doc.Users = Users{}
	}
	return doc.Users, nil
}

// Credentials looks up one user and validates that all required fields are
// present, enumerating what is missing.
func (u Users) Credentials(name string) (User, error) {
	user, ok := u[name]
	if !ok {
		names := make([]string, 0, len(u))
		for n := range u {
			names = append(names, n)
		}
		sort.Strings(names)
		return User{}, fmt.Errorf("user %q not found (available: %s)", name, strings.Join(names, ", "))
	}

	var missing []string
	if user.Email == "" {
		missing = append(missing, "altea_email")
	}
	if user.Password == "" {
		missing = append(missing, "altea_password")
	}
	if user.NotificationEmail == "" {
		missing = append(missing, "notification_email")
	}
	if len(missing) > 0 {
		return User{}, fmt.Errorf("user %q: missing fields: %s", name, strings.Join(missing, ", "))
	}
	return user, nil
}

// Mail holds the mail provider settings, sourced from the environment
// (typically via a .env file loaded at startup).
type Mail struct {
	Domain    string
	APIKey    string
	From      string
	To        string
	WifeEmail string // optional extra recipient for --for-wife runs
}

// LoadMail reads mail settings from the environment. All-or-nothing: a
// partially configured mailer is rejected with the missing variables named.
func LoadMail() (Mail, error) {
	m := Mail{
		Domain:    os.Getenv("MAILGUN_DOMAIN"),
		APIKey:    os.Getenv("MAILGUN_API_KEY"),
		From:      os.Getenv("FROM_EMAIL"),
		To:        os.Getenv("TO_EMAIL"),
		WifeEmail: os.Getenv("WIFE_EMAIL"),
	}

	var missing []string
	if m.Domain == "" {
		missing = append(missing, "MAILGUN_DOMAIN")
	}
	if m.APIKey == "" {
		missing = append(missing, "MAILGUN_API_KEY")
	}
	if m.From == "" {
		missing = append(missing, "FROM_EMAIL")
	}
	if m.To == "" {
		missing = append(missing, "TO_EMAIL")
	}
	if len(missing) > 0 {
		return Mail{}, fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return m, nil
}
