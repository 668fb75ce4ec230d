package config

import "runtime"

// Archive modes.
const (
	ArchiveModeExternal = "external"
	ArchiveModeNative   = "native"
)

// Paths contains source, scratch, and output locations.
type Paths struct {
	ObjectSourceDir    string `toml:"object_source_dir"`
	AssetPackSourceDir string `toml:"asset_pack_source_dir"`
	WorkspaceDir       string `toml:"workspace_dir"`
	OutputDir          string `toml:"output_dir"`
	// ArtifactPath is the final distributable. Empty means
	// <parent of output_dir>/artifacts/opensound.zip.
	ArtifactPath string `toml:"artifact_path"`
	LogDir       string `toml:"log_dir"`
}

// Transcode contains settings for the external audio transcoder.
type Transcode struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	// Verify inspects every transcoded sample with ffprobe.
	Verify bool `toml:"verify"`
}

// Archive selects how package archives are produced.
type Archive struct {
	Mode           string `toml:"mode"`
	ZipBinary      string `toml:"zip_binary"`
	SevenZipBinary string `toml:"sevenzip_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History contains configuration for the build history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Notifications contains ntfy settings. An empty topic disables delivery.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Config encapsulates all configuration values for opensound.
//
// Configuration sections by subsystem:
//   - Paths: manifest source directories, workspace, outputs
//   - Transcode: ffmpeg/ffprobe binaries and output verification
//   - Archive: external zip tool or in-process archiver
//   - Logging: log format and level
//   - History: build history database
//   - Notifications: ntfy build summaries
type Config struct {
	Paths     Paths     `toml:"paths"`
	Transcode Transcode `toml:"transcode"`
	Archive   Archive   `toml:"archive"`
	Logging   Logging   `toml:"logging"`
	History   History   `toml:"history"`

	Notifications Notifications `toml:"notifications"`
}

// Normalize expands paths and fills defaults on a Config built in code rather
// than loaded from disk.
func (c *Config) Normalize() error {
	return c.normalize()
}

// ArchiverBinary returns the external archiver for the host platform.
func (c *Config) ArchiverBinary() string {
	if runtime.GOOS == "windows" {
		return c.Archive.SevenZipBinary
	}
	return c.Archive.ZipBinary
}

func (c *Config) FFmpegBinary() string { return c.Transcode.FFmpegBinary }

func (c *Config) FFprobeBinary() string { return c.Transcode.FFprobeBinary }
