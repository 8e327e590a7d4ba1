package config

const (
	defaultWorkDir              = "~/.local/share/newsreel/runs"
	defaultOutputDir            = "~/.local/share/newsreel/output"
	defaultLogDir               = "~/.local/share/newsreel/logs"
	defaultSearchBaseURL        = "https://archive.org/advancedsearch.php"
	defaultSearchTimeoutSeconds = 30
	defaultSearchPageSize       = 50
	defaultCoverageThreshold    = 0.5
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultProbeTimeoutSeconds  = 30
	defaultTrimTimeoutSeconds   = 300
	defaultConcatTimeoutSeconds = 600
	defaultSubclipWorkers       = 4
	defaultRunTimeoutSeconds    = 3600
	defaultClipSeconds          = 5.0
	defaultSampleDrops          = 5
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Search: Search{
			BaseURL:        defaultSearchBaseURL,
			TimeoutSeconds: defaultSearchTimeoutSeconds,
			PageSize:       defaultSearchPageSize,
			MediaTypes:     []string{"movies", "image"},
		},
		Filter: Filter{
			AllowedMediaTypes: []string{"movies", "image"},
			AllowedLicenses:   []string{"public-domain", "unknown"},
		},
		Coverage: Coverage{
			Threshold: defaultCoverageThreshold,
		},
		Tools: Tools{
			FFmpegBinary:         defaultFFmpegBinary,
			FFprobeBinary:        defaultFFprobeBinary,
			ProbeTimeoutSeconds:  defaultProbeTimeoutSeconds,
			TrimTimeoutSeconds:   defaultTrimTimeoutSeconds,
			ConcatTimeoutSeconds: defaultConcatTimeoutSeconds,
		},
		Pipeline: Pipeline{
			SubclipWorkers:    defaultSubclipWorkers,
			RunTimeoutSeconds: defaultRunTimeoutSeconds,
			ClipSeconds:       defaultClipSeconds,
			SampleDrops:       defaultSampleDrops,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
