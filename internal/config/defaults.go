package config

const (
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultTargetCodec    = "hevc"
	defaultVideoCodec     = "libx265"
	defaultVideoParams    = "ctu=32:max-tu-size=16:pools=16"
	defaultAudioCodec     = "libmp3lame"
	defaultAudioQuality   = 4
	defaultOutputSuffix   = "_h265_mp3.mp4"
	defaultListFile       = "files_to_convert.txt"
	defaultCheckpointFile = ".framepress_resume.json"
	defaultLockFile       = ".framepress.lock"
	defaultPollIntervalMS = 100
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultHistoryPath    = ".framepress_history.db"
)

func defaultVideoExtensions() []string {
	return []string{".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Encoder: Encoder{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			TargetCodec:   defaultTargetCodec,
			VideoCodec:    defaultVideoCodec,
			VideoParams:   defaultVideoParams,
			AudioCodec:    defaultAudioCodec,
			AudioQuality:  defaultAudioQuality,
		},
		Files: Files{
			VideoExtensions: defaultVideoExtensions(),
			OutputSuffix:    defaultOutputSuffix,
			ListFile:        defaultListFile,
			CheckpointFile:  defaultCheckpointFile,
			LockFile:        defaultLockFile,
		},
		Session: Session{
			PollIntervalMS: defaultPollIntervalMS,
			KeepAwake:      true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
	}
}
