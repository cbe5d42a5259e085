// Package config handles editor and map server configuration.
package config

// Config holds all greenside settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Editor    EditorConfig    `yaml:"editor"`
	Server    ServerConfig    `yaml:"server"`
	MapServer MapServerConfig `yaml:"map_server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// EditorConfig holds editing defaults.
type EditorConfig struct {
	GridSnap bool    `yaml:"grid_snap"`
	GridSize float64 `yaml:"grid_size"`
	// StartupMap is loaded from the map server on launch when set.
	StartupMap string `yaml:"startup_map,omitempty"`
}

// ServerConfig holds the editor's connection to the map server.
type ServerConfig struct {
	URL string `yaml:"url"`
}

// MapServerConfig holds the map server's own settings.
type MapServerConfig struct {
	Addr      string `yaml:"addr"`
	MapsDir   string `yaml:"maps_dir"`
	StaticDir string `yaml:"static_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Editor: EditorConfig{
			GridSnap: true,
			GridSize: 1,
		},
		Server: ServerConfig{
			URL: "http://localhost:8080",
		},
		MapServer: MapServerConfig{
			Addr:      ":8080",
			MapsDir:   "maps",
			StaticDir: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
