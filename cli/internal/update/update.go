package update

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/go-version"

	"github.com/tinybird-community/tinybird-go/cli/internal/ui"
)

// latestKnownVersion is the newest release this build knows about.
// TODO: fetch from the GitHub releases API once the repo publishes tags.
const latestKnownVersion = "0.1.0"

// CheckForUpdates compares the running version against the latest
// known release and prints upgrade instructions when behind.
func CheckForUpdates(currentVersion string) error {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	latest, err := version.NewVersion(latestKnownVersion)
	if err != nil {
		return fmt.Errorf("invalid latest version format: %w", err)
	}

	if current.LessThan(latest) {
		ui.PrintWarning("A new version is available!")
		fmt.Printf("Current version: %s\n", currentVersion)
		fmt.Printf("Latest version:  %s\n", latestKnownVersion)
		fmt.Printf("\nUpdate with: go install github.com/tinybird-community/tinybird-go/cli@latest\n")
	}

	return nil
}

// GetDownloadURL returns the release asset URL for the current platform.
func GetDownloadURL(version string) string {
	os := runtime.GOOS
	arch := runtime.GOARCH

	return fmt.Sprintf("https://github.com/tinybird-community/tinybird-go/releases/download/v%s/tinybird-go-%s-%s", version, os, arch)
}
