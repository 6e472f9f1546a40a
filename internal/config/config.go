package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the food ordering platform.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Redis    RedisConfig    `yaml:"redis"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Admin    AdminConfig    `yaml:"admin"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RabbitMQConfig holds RabbitMQ connection configuration.
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// RedisConfig holds the payment tally store address.
type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// GatewayConfig holds routing targets for the API gateway.
// TransactionNodes is a comma-separated list of interchangeable
// transaction-service base URLs.
type GatewayConfig struct {
	CoreURL          string `yaml:"core_url"`
	TransactionNodes string `yaml:"transaction_nodes"`
	RequestTimeoutMS int    `yaml:"request_timeout_ms"`
}

// SMTPConfig holds outbound mail submission settings.
type SMTPConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Sender       string `yaml:"sender"`
	BillingEmail string `yaml:"billing_email"`
}

// AdminConfig holds the admin login credentials.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads configuration from a YAML file.
func Load(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := &Config{}
	scanner := bufio.NewScanner(file)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Section headers
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			currentSection = strings.TrimSuffix(line, ":")
			continue
		}

		// Key-value pairs
		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if err := config.setValue(currentSection, key, value); err != nil {
				return nil, fmt.Errorf("failed to set config value %s.%s: %w", currentSection, key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return config, nil
}

func (c *Config) setValue(section, key, value string) error {
	switch section {
	case "database":
		return c.setDatabaseValue(key, value)
	case "rabbitmq":
		return c.setRabbitMQValue(key, value)
	case "redis":
		return c.setRedisValue(key, value)
	case "gateway":
		return c.setGatewayValue(key, value)
	case "smtp":
		return c.setSMTPValue(key, value)
	case "admin":
		return c.setAdminValue(key, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) setDatabaseValue(key, value string) error {
	switch key {
	case "host":
		c.Database.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Database.Port = port
	case "user":
		c.Database.User = value
	case "password":
		c.Database.Password = value
	case "database":
		c.Database.Database = value
	default:
		return fmt.Errorf("unknown database key: %s", key)
	}
	return nil
}

func (c *Config) setRabbitMQValue(key, value string) error {
	switch key {
	case "host":
		c.RabbitMQ.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.RabbitMQ.Port = port
	case "user":
		c.RabbitMQ.User = value
	case "password":
		c.RabbitMQ.Password = value
	default:
		return fmt.Errorf("unknown rabbitmq key: %s", key)
	}
	return nil
}

func (c *Config) setRedisValue(key, value string) error {
	switch key {
	case "addr":
		c.Redis.Addr = value
	default:
		return fmt.Errorf("unknown redis key: %s", key)
	}
	return nil
}

func (c *Config) setGatewayValue(key, value string) error {
	switch key {
	case "core_url":
		c.Gateway.CoreURL = value
	case "transaction_nodes":
		c.Gateway.TransactionNodes = value
	case "request_timeout_ms":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid request_timeout_ms value: %w", err)
		}
		c.Gateway.RequestTimeoutMS = ms
	default:
		return fmt.Errorf("unknown gateway key: %s", key)
	}
	return nil
}

func (c *Config) setSMTPValue(key, value string) error {
	switch key {
	case "host":
		c.SMTP.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.SMTP.Port = port
	case "username":
		c.SMTP.Username = value
	case "password":
		c.SMTP.Password = value
	case "sender":
		c.SMTP.Sender = value
	case "billing_email":
		c.SMTP.BillingEmail = value
	default:
		return fmt.Errorf("unknown smtp key: %s", key)
	}
	return nil
}

func (c *Config) setAdminValue(key, value string) error {
	switch key {
	case "username":
		c.Admin.Username = value
	case "password":
		c.Admin.Password = value
	default:
		return fmt.Errorf("unknown admin key: %s", key)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL.
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

// TransactionNodeList splits the configured transaction node URLs.
func (c *Config) TransactionNodeList() []string {
	var nodes []string
	for _, node := range strings.Split(c.Gateway.TransactionNodes, ",") {
		node = strings.TrimSpace(node)
		if node != "" {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// GatewayRequestTimeout returns the bounded timeout for proxied calls.
func (c *Config) GatewayRequestTimeout() time.Duration {
	if c.Gateway.RequestTimeoutMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Gateway.RequestTimeoutMS) * time.Millisecond
}
