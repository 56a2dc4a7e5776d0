package chrome

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// GetChromePath returns the Chrome executable to launch. A non-empty override
// wins when it exists; otherwise well-known install paths and PATH are searched.
func GetChromePath(override string) string {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
		if path, err := exec.LookPath(override); err == nil {
			return path
		}
	}

	for _, path := range candidatePaths(runtime.GOOS) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium-browser", "chromium"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return GetFlatpakChromePath()
}

func candidatePaths(goos string) []string {
	switch goos {
	case "linux":
		return []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
			"/snap/bin/chromium",
			"/opt/google/chrome/google-chrome",
		}
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		paths := []string{
			"C:\\Program Files\\Google\\Chrome\\Application\\chrome.exe",
			"C:\\Program Files (x86)\\Google\\Chrome\\Application\\chrome.exe",
		}
		if local != "" {
			paths = append(paths, local+"\\Google\\Chrome\\Application\\chrome.exe")
		}
		return paths
	}
	return nil
}

// GetFlatpakChromePath returns the flatpak wrapper script when Chrome is only
// installed through flatpak.
func GetFlatpakChromePath() string {
	if !isFlatpakChromeAvailable() {
		return ""
	}

	wrapperPath := "./scripts/chrome-flatpak-wrapper.sh"
	if _, err := os.Stat(wrapperPath); err == nil {
		return wrapperPath
	}
	return ""
}

func isFlatpakChromeAvailable() bool {
	if _, err := exec.LookPath("flatpak"); err != nil {
		return false
	}

	output, err := exec.Command("flatpak", "list", "--app", "--columns=application").Output()
	if err != nil {
		return false
	}

	apps := string(output)
	return strings.Contains(apps, "com.google.Chrome") || strings.Contains(apps, "org.chromium.Chromium")
}
