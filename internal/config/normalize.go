package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSearch()
	c.normalizeFilter()
	c.normalizeTools()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSearch() {
	c.Search.BaseURL = strings.TrimSpace(c.Search.BaseURL)
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = defaultSearchBaseURL
	}
	if c.Search.TimeoutSeconds <= 0 {
		c.Search.TimeoutSeconds = defaultSearchTimeoutSeconds
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = defaultSearchPageSize
	}
	c.Search.MediaTypes = normalizeList(c.Search.MediaTypes, []string{"movies", "image"})
}

func (c *Config) normalizeFilter() {
	c.Filter.AllowedMediaTypes = normalizeList(c.Filter.AllowedMediaTypes, []string{"movies", "image"})
	c.Filter.AllowedLicenses = normalizeList(c.Filter.AllowedLicenses, []string{"public-domain", "unknown"})
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpegBinary = strings.TrimSpace(c.Tools.FFmpegBinary)
	if c.Tools.FFmpegBinary == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	c.Tools.FFprobeBinary = strings.TrimSpace(c.Tools.FFprobeBinary)
	if c.Tools.FFprobeBinary == "" {
		c.Tools.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Tools.ProbeTimeoutSeconds <= 0 {
		c.Tools.ProbeTimeoutSeconds = defaultProbeTimeoutSeconds
	}
	if c.Tools.TrimTimeoutSeconds <= 0 {
		c.Tools.TrimTimeoutSeconds = defaultTrimTimeoutSeconds
	}
	if c.Tools.ConcatTimeoutSeconds <= 0 {
		c.Tools.ConcatTimeoutSeconds = defaultConcatTimeoutSeconds
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.SubclipWorkers <= 0 {
		c.Pipeline.SubclipWorkers = defaultSubclipWorkers
	}
	if c.Pipeline.RunTimeoutSeconds < 0 {
		c.Pipeline.RunTimeoutSeconds = defaultRunTimeoutSeconds
	}
	if c.Pipeline.ClipSeconds <= 0 {
		c.Pipeline.ClipSeconds = defaultClipSeconds
	}
	if c.Pipeline.SampleDrops <= 0 {
		c.Pipeline.SampleDrops = defaultSampleDrops
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeList(values, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
