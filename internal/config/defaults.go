package config

const (
	defaultObjectSourceDir    = "openrct2.audio.additional"
	defaultAssetPackSourceDir = "openrct2.sound"
	defaultWorkspaceDir       = "temp"
	defaultOutputDir          = "out"
	defaultArtifactName       = "opensound.zip"
	defaultArtifactDir        = "artifacts"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultArchiveMode        = ArchiveModeExternal
	defaultZipBinary          = "zip"
	defaultSevenZipBinary     = "7z"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultHistoryEnabled     = true
	defaultHistoryPath        = "~/.local/share/opensound/history.db"
	defaultNtfyTimeout        = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ObjectSourceDir:    defaultObjectSourceDir,
			AssetPackSourceDir: defaultAssetPackSourceDir,
			WorkspaceDir:       defaultWorkspaceDir,
			OutputDir:          defaultOutputDir,
		},
		Transcode: Transcode{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Archive: Archive{
			Mode:           defaultArchiveMode,
			ZipBinary:      defaultZipBinary,
			SevenZipBinary: defaultSevenZipBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Path:    defaultHistoryPath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
	}
}
