// Command mvfsdemo loads a manifest of file/folder creation requests into
// an in-memory mvfs tree and, optionally, mounts it as a real FUSE
// filesystem so a shell can ls/cat/echo against it directly. Grounded on
// the teacher's cmd/main.go: same flag shapes, same verbosity-to-LogLevel
// table, same SIGINT/SIGTERM/SIGQUIT-triggered unmount — generalized away
// from webfs's HTTP-backed adapters.RegisterBuiltins()/requests dispatch
// down to this tree's plain manifest.LoadAndApply.
package main

import (
	"flag"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/mvfslib/mvfs"
	"github.com/mvfslib/mvfs/config"
	"github.com/mvfslib/mvfs/internal/manifest"
	"github.com/mvfslib/mvfs/internal/util"
	"github.com/mvfslib/mvfs/mount"
)

func main() {
	var (
		configPath string
		manifestPath string
		umount     bool
		verbose    int
	)
	flag.StringVar(&configPath, "config", "", "path to a YAML/JSON config override file")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.StringVar(&manifestPath, "manifest", "", "path to a JSON manifest of file/folder entries to load")
	flag.StringVar(&manifestPath, "m", "", "--manifest (shorthand)")
	flag.BoolVar(&umount, "umount", false,
		"unmount the mountpoint first if needed before mounting again (useful after a debugger leaves it stale)")
	flag.BoolVar(&umount, "u", false, "--umount (shorthand)")
	flag.IntVar(&verbose, "verbose", 3, "log verbosity level between 1 (error) and 5 (trace); default 3 (info)")
	flag.IntVar(&verbose, "v", 3, "--verbose (shorthand)")
	flag.Parse()

	if verbose < 1 {
		verbose = 1
	}
	if verbose > 5 {
		verbose = 5
	}
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	logLvl := logLvls[verbose-1]
	util.InitializeLogger(logLvl)
	logger := util.GetLogger("main")

	cfg := config.NewDefaultConfig()
	cfg.LogLvl = logLvl
	if configPath != "" {
		override, err := config.LoadConfigOverrideFile(configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("config", configPath).Msg("failed to load config override")
		}
		cfg.Merge(override)
	}

	mnt := flag.Arg(0)
	logger.Info().Int("verbose", verbose).Str("manifest", manifestPath).Str("mnt", mnt).Msg("mvfs demo initializing")

	if umount && mnt != "" {
		cmd := exec.Command("fusermount", "-u", mnt)
		cmd.Run() // nolint:errcheck — ignore if not already mounted
	}

	fsRoot := mvfs.NewFilesystemRoot(mvfs.Hooks{
		Init: func(root *mvfs.Folder) {
			logger.Info().Str("root", root.Path()).Msg("filesystem root initialized")
		},
		BeforeUninit: func(root *mvfs.Folder) {
			logger.Info().Msg("filesystem root tearing down")
		},
	})
	defer fsRoot.Close()

	if manifestPath != "" {
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			logger.Fatal().Err(err).Str("manifest", manifestPath).Msg("failed to read manifest")
		}
		result, err := manifest.LoadAndApply(fsRoot.Root(), data)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to apply manifest")
		}
		logger.Info().Int("folders", result.FoldersCreated).Int("files", result.FilesCreated).Msg("manifest applied")
	} else {
		logger.Warn().Msg("no manifest provided; starting with an empty tree")
	}

	if mnt == "" {
		logger.Info().Msg("no mountpoint given; exiting after applying the manifest")
		return
	}

	srv, err := mount.Mount(fsRoot, mnt, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("mountpoint", mnt).Msg("failed to prepare mount")
	}
	if err := srv.Serve(); err != nil {
		logger.Fatal().Err(err).Str("mountpoint", mnt).Msg("failed to mount filesystem")
	}
	logger.Info().Str("mountpoint", mnt).Msg("filesystem mounted successfully")

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-signalChan
	logger.Info().Str("signal", sig.String()).Msg("received signal, unmounting filesystem")

	if err := srv.Unmount(); err != nil {
		logger.Error().Err(err).Msg("failed to unmount filesystem")
	} else {
		logger.Info().Msg("filesystem unmounted successfully")
	}
}
