package application

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ReminderConfig defines the payment reminder schedule.
type ReminderConfig struct {
	DailyAt    string `yaml:"daily_at"`
	WebhookURL string `yaml:"webhook_url"`
}

// Policy defines association-level billing defaults, loadable from a
// yaml file or environment.
type Policy struct {
	Currency  string         `yaml:"currency"`
	DueDay    int            `yaml:"due_day"`
	Reminders ReminderConfig `yaml:"reminders"`
}

// LoadPolicy loads the billing policy from BILLING_CONFIG yaml when set,
// with environment fallbacks for individual fields.
func LoadPolicy() (Policy, error) {
	policy := Policy{
		Currency: getenvDefault("BILLING_CURRENCY", "BRL"),
		DueDay:   getenvIntDefault("BILLING_DUE_DAY", 10),
		Reminders: ReminderConfig{
			DailyAt:    getenvDefault("BILLING_REMINDER_DAILY_AT", ""),
			WebhookURL: os.Getenv("BILLING_REMINDER_WEBHOOK_URL"),
		},
	}

	if path := os.Getenv("BILLING_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return policy, err
		}
		if err := yaml.Unmarshal(data, &policy); err != nil {
			return policy, err
		}
	}

	if policy.DueDay < 1 || policy.DueDay > 31 {
		policy.DueDay = 10
	}
	return policy, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
