package deps

// FFmpegRequirement describes the transcoder binary clip derivation shells
// out to.
func FFmpegRequirement(binary string) Requirement {
	if binary == "" {
		binary = "ffmpeg"
	}
	return Requirement{
		Name:        "FFmpeg",
		Command:     binary,
		Description: "Used for clip transcoding",
	}
}

// CheckFFmpeg reports whether the configured ffmpeg binary is resolvable.
func CheckFFmpeg(binary string) Status {
	return CheckBinaries([]Requirement{FFmpegRequirement(binary)})[0]
}
