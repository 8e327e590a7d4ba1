package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateCoverage(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSearch() error {
	parsed, err := url.Parse(c.Search.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("search.base_url %q is not an absolute URL", c.Search.BaseURL)
	}
	if c.Search.PageSize > 1000 {
		return errors.New("search.page_size must be at most 1000")
	}
	return nil
}

func (c *Config) validateFilter() error {
	for _, license := range c.Filter.AllowedLicenses {
		switch license {
		case "public-domain", "unknown", "restricted":
		default:
			return fmt.Errorf("filter.allowed_licenses contains unknown class %q", license)
		}
	}
	if len(c.Filter.AllowedMediaTypes) == 0 {
		return errors.New("filter.allowed_mediatypes must not be empty")
	}
	return nil
}

func (c *Config) validateCoverage() error {
	if c.Coverage.Threshold < 0 || c.Coverage.Threshold > 1 {
		return errors.New("coverage.threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}
