package flowsketch

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds user preferences read from ~/.flowsketchrc. Every field
// has a default so a missing or partial file is fine.
type Config struct {
	SaveDirectory string
	PageWidth     float64
	PageHeight    float64
	GridSize      int
	ShowGrid      bool
	Background    string
}

// LoadConfig reads ~/.flowsketchrc (key=value lines, # comments).
// Missing file or unreadable home directory return the defaults.
func LoadConfig() *Config {
	config := &Config{
		SaveDirectory: "",
		PageWidth:     defaultPageWidth,
		PageHeight:    defaultPageHeight,
		GridSize:      defaultGridSize,
		ShowGrid:      true,
		Background:    "#ffffff",
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	configPath := filepath.Join(homeDir, ".flowsketchrc")
	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			if strings.HasPrefix(value, "~") {
				value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
			}
			if !filepath.IsAbs(value) {
				if absPath, err := filepath.Abs(value); err == nil {
					value = absPath
				}
			}
			config.SaveDirectory = value
		case "pagewidth", "page_width":
			if w, err := strconv.ParseFloat(value, 64); err == nil && w > 0 {
				config.PageWidth = w
			}
		case "pageheight", "page_height":
			if h, err := strconv.ParseFloat(value, 64); err == nil && h > 0 {
				config.PageHeight = h
			}
		case "gridsize", "grid_size", "grid":
			if g, err := strconv.Atoi(value); err == nil && g > 0 {
				config.GridSize = g
			}
		case "showgrid", "show_grid":
			config.ShowGrid = strings.ToLower(value) == "true"
		case "background", "backgroundcolor", "background_color":
			if strings.HasPrefix(value, "#") {
				config.Background = value
			}
		}
	}

	return config
}

// GetSavePath resolves a filename against the configured save directory,
// creating the directory if needed.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

// Apply pushes the configured defaults onto a canvas.
func (c *Config) Apply(canvas *Canvas) {
	canvas.SetPageSize(Size{Width: c.PageWidth, Height: c.PageHeight})
	canvas.SetGridSize(c.GridSize)
	canvas.SetGridVisible(c.ShowGrid)
	canvas.SetBackground(parseHexColor(c.Background))
}
