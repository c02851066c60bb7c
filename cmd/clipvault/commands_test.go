package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipvault/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite must refuse.
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected config init to refuse overwriting")
	}
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "<redacted>")
	if token := env.cfg.Keep2Share.AccessToken; token != "" && strings.Contains(out, token) {
		t.Fatalf("config show leaked access token")
	}
}

func TestScanVideosAndStats(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.VideosDir, "demo.mp4"), 4096)

	out, _, err := runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Tracked 1 new video(s)")
	requireContains(t, out, "demo.mp4")

	// Second scan finds nothing new.
	out, _, err = runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	requireContains(t, out, "up to date")

	out, _, err = runCLI(t, []string{"videos"}, env.configPath)
	if err != nil {
		t.Fatalf("videos: %v", err)
	}
	requireContains(t, out, "demo.mp4")

	out, _, err = runCLI(t, []string{"stats"}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Videos: 1")
}

func TestVideosAllListsUntrackedFiles(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.VideosDir, "loose.mp4"), 1024)

	out, _, err := runCLI(t, []string{"videos", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("videos --all: %v", err)
	}
	requireContains(t, out, "untracked file(s)")
	requireContains(t, out, "loose.mp4")

	// After a scan the file is tracked and no longer reported.
	if _, _, err := runCLI(t, []string{"scan"}, env.configPath); err != nil {
		t.Fatalf("scan: %v", err)
	}
	out, _, err = runCLI(t, []string{"videos", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("videos --all after scan: %v", err)
	}
	if strings.Contains(out, "untracked file(s)") {
		t.Fatalf("expected no untracked files after scan, got:\n%s", out)
	}
}

func TestVideosRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"videos", "--status", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestClipRejectsInvalidTimecode(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"clip", "1000", "nonsense", "00:00:10"}, env.configPath)
	if err == nil {
		t.Fatal("expected invalid time code to fail")
	}
	requireContains(t, err.Error(), "invalid time code")
}

func TestShowUnknownVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"show", "42000"}, env.configPath)
	if err == nil {
		t.Fatal("expected show of unknown video to fail")
	}
	requireContains(t, err.Error(), "not tracked")
}

func TestRetryRequiresFailedState(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"retry", "video", "42000"}, env.configPath)
	if err == nil {
		t.Fatal("expected retry of unknown video to fail")
	}
	requireContains(t, err.Error(), "not in a failed state")
}

func TestExpireRequiresUploadedState(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.VideosDir, "fresh.mp4"), 2048)
	if _, _, err := runCLI(t, []string{"scan"}, env.configPath); err != nil {
		t.Fatalf("scan: %v", err)
	}

	out, _, err := runCLI(t, []string{"videos", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("videos --json: %v", err)
	}
	requireContains(t, out, "fresh.mp4")

	// The video is still pending, so expiry must refuse.
	_, _, err = runCLI(t, []string{"expire", "42000"}, env.configPath)
	if err == nil {
		t.Fatal("expected expire of unknown video to fail")
	}
	requireContains(t, err.Error(), "not in an uploaded state")
}

func TestUploadClipWithoutStorageCredentials(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("K2S_ACCESS_TOKEN", "")
	env.cfg.Keep2Share.AccessToken = ""
	writeTestConfig(t, env.configPath, env.cfg)

	// With no storage token the clip channel still works; the command must
	// get past client construction and report the missing clip.
	_, _, err := runCLI(t, []string{"upload", "clip", "42"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown clip")
	}
	requireContains(t, err.Error(), "clip 42 is not tracked")
	if strings.Contains(err.Error(), "access token") {
		t.Fatalf("missing token surfaced before clip lookup: %v", err)
	}
}
