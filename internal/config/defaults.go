package config

const (
	defaultSearchDir = "."
	defaultLogDir    = "~/.local/share/descwrite/logs"

	defaultMaxScanItems    = 30000
	defaultExiftoolBinary  = "exiftool"
	defaultExiftoolTimeout = 120
)

// Default returns the baseline configuration prior to any file overrides.
// The zero-valued Write section leaves every destructive policy disabled.
func Default() Config {
	return Config{
		Paths: Paths{
			SearchDir: defaultSearchDir,
			LogDir:    defaultLogDir,
		},
		Scan: Scan{
			MaxItems:    defaultMaxScanItems,
			ExcludeDirs: []string{"CaptureOne"},
		},
		Exiftool: Exiftool{
			Binary:         defaultExiftoolBinary,
			TimeoutSeconds: defaultExiftoolTimeout,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
