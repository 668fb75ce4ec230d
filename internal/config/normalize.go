package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscode()
	c.normalizeArchive()
	c.normalizeLogging()
	c.normalizeNotifications()
	return c.normalizeHistory()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ObjectSourceDir) == "" {
		c.Paths.ObjectSourceDir = defaultObjectSourceDir
	}
	if c.Paths.ObjectSourceDir, err = expandPath(c.Paths.ObjectSourceDir); err != nil {
		return fmt.Errorf("paths.object_source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AssetPackSourceDir) == "" {
		c.Paths.AssetPackSourceDir = defaultAssetPackSourceDir
	}
	if c.Paths.AssetPackSourceDir, err = expandPath(c.Paths.AssetPackSourceDir); err != nil {
		return fmt.Errorf("paths.asset_pack_source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ArtifactPath) == "" {
		c.Paths.ArtifactPath = filepath.Join(filepath.Dir(c.Paths.OutputDir), defaultArtifactDir, defaultArtifactName)
	}
	if c.Paths.ArtifactPath, err = expandPath(c.Paths.ArtifactPath); err != nil {
		return fmt.Errorf("paths.artifact_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscode() {
	c.Transcode.FFmpegBinary = strings.TrimSpace(c.Transcode.FFmpegBinary)
	if value, ok := os.LookupEnv("OPENSOUND_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Transcode.FFmpegBinary = strings.TrimSpace(value)
	}
	if c.Transcode.FFmpegBinary == "" {
		c.Transcode.FFmpegBinary = defaultFFmpegBinary
	}
	c.Transcode.FFprobeBinary = strings.TrimSpace(c.Transcode.FFprobeBinary)
	if c.Transcode.FFprobeBinary == "" {
		c.Transcode.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeArchive() {
	c.Archive.Mode = strings.ToLower(strings.TrimSpace(c.Archive.Mode))
	if c.Archive.Mode == "" {
		c.Archive.Mode = defaultArchiveMode
	}
	c.Archive.ZipBinary = strings.TrimSpace(c.Archive.ZipBinary)
	if c.Archive.ZipBinary == "" {
		c.Archive.ZipBinary = defaultZipBinary
	}
	c.Archive.SevenZipBinary = strings.TrimSpace(c.Archive.SevenZipBinary)
	if c.Archive.SevenZipBinary == "" {
		c.Archive.SevenZipBinary = defaultSevenZipBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("OPENSOUND_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}
