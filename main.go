package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/BrandonKowalski/certifiable"
	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/urfave/cli/v2"
)

// Platform represents the target device.
type Platform string

const (
	PlatformMac    Platform = "mac"
	PlatformTG5040 Platform = "tg5040"
	PlatformTG5050 Platform = "tg5050"
)

var platform Platform

const sdcardPath = "/mnt/SDCARD"

var Version = "v0.0.0"

func main() {
	platform = PlatformTG5040
	platformEnv := strings.ToUpper(os.Getenv("PLATFORM"))
	if strings.Contains(platformEnv, "TG5050") {
		platform = PlatformTG5050
	} else if strings.Contains(platformEnv, "TG5040") || strings.Contains(platformEnv, "TG3040") {
		platform = PlatformTG5040
	}

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetPrefix("boxart: ")

	app := &cli.App{
		Name:      "boxart",
		Usage:     "browse and edit NextUI box art",
		Version:   Version,
		ArgsUsage: "[roms-root]",
		Action: func(c *cli.Context) error {
			return run(c.Args().First())
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(rootArg string) error {
	settings := loadSettings()

	root := rootArg
	if root == "" {
		root = settings.RootDir
	}
	if root == "" {
		root = defaultRomsPath()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving roms root %q: %w", root, err)
	}
	root = abs

	logPath := getLogPath()
	log.Printf("startup: platform=%s root=%s logPath=%s", platform, root, logPath)
	gaba.Init(gaba.Options{
		WindowTitle:    "Box Art",
		ShowBackground: true,
		LogPath:        logPath,
		IsNextUI:       platform != PlatformMac,
	})
	defer gaba.Close()

	if root != settings.RootDir {
		settings.RootDir = root
		logError("saving settings", saveSettings(settings))
	}

	runApp(root)
	return nil
}

// defaultRomsPath returns the conventional Roms directory for this platform.
func defaultRomsPath() string {
	sdcard := os.Getenv("SDCARD_PATH")
	if sdcard == "" {
		if platform == PlatformMac {
			cwd, _ := os.Getwd()
			sdcard = filepath.Join(cwd, "mock_sdcard")
		} else {
			sdcard = sdcardPath
		}
	}
	return filepath.Join(sdcard, "Roms")
}

func getLogPath() string {
	logDir := filepath.Join(getUserdataDir(), "logs")
	return filepath.Join(logDir, "boxart.log")
}

// isErrCancelled checks if the error is a Gabagool user-cancelled error.
func isErrCancelled(err error) bool {
	return errors.Is(err, gaba.ErrCancelled)
}

// logError logs a non-nil, non-cancelled error.
func logError(context string, err error) {
	if err != nil && !isErrCancelled(err) {
		log.Printf("%s: %v", context, err)
	}
}
