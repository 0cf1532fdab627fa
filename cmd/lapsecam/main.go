// Command lapsecam captures frames from a webcam for a time-lapse video. It
// shows the camera image in a window; space toggles recording, f prints the
// display frame rate, q quits. While recording, a frame is saved every
// lag_seconds as a numbered image file. At the end, example ffmpeg commands
// to turn the frames into a video are printed.
//
// Examples:
//
//	# Every 15 seconds, save video/frame_00000000.jpg, video/frame_00000001.jpg, ...
//	lapsecam video/frame_ 15 0
//
//	# Continue at frame 1200 as png, at 1920x1080.
//	lapsecam -type png -resolution 1920x1080 video/frame_ 15 1200
//
//	# Probe the camera and pick a resolution from a menu first.
//	lapsecam -select -camera 1 video/frame_ 5 0
//
//	# Without a window, using ffmpeg; type space, f or q followed by enter.
//	lapsecam -backend ffmpeg -device /dev/video2 video/frame_ 5 0
//
//	# Settings from a file.
//	lapsecam -config lapse.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/lapsecam/lapsecam"
	"github.com/lapsecam/lapsecam/camera/backend"
	"github.com/lapsecam/lapsecam/capture"
	"github.com/lapsecam/lapsecam/config"
	"github.com/lapsecam/lapsecam/resolution"
)

var (
	configPath  string
	listDevices bool

	// Flags write into flagConfig, explicitly set flags are copied over the
	// config file settings.
	flagConfig = config.Default()
)

func init() {
	c := &flagConfig
	flag.StringVar(&configPath, "config", "", "if set, read settings from this YAML file, flags and arguments override it")
	flag.BoolVar(&listDevices, "listdevices", false, "if set, lists devices and exits")
	flag.IntVar(&c.Camera, "camera", c.Camera, "camera index")
	flag.StringVar(&c.Type, "type", c.Type, "image type, jpg or png")
	flag.StringVar(&c.Resolution, "resolution", c.Resolution, "set the camera to WIDTHxHEIGHT")
	flag.BoolVar(&c.SelectResolution, "select", c.SelectResolution, "probe the camera for resolutions and choose one interactively")
	flag.IntVar(&c.Digits, "digits", c.Digits, "number of digits in frame numbers, increased when exceeded")
	flag.Float64Var(&c.FPS, "fps", c.FPS, "if > 0, frame rate to request from the camera")
	flag.StringVar(&c.Backend, "backend", c.Backend, "camera backend, gocv or ffmpeg")
	flag.StringVar(&c.Device, "device", c.Device, "for ffmpeg, device path to use instead of /dev/video<camera>")
	flag.BoolVar(&c.NoNetwork, "no-network", c.NoNetwork, "with -select, don't download the resolution list, use the cache")
	flag.StringVar(&c.Cache, "cache", c.Cache, "resolution list cache file")
	flag.BoolVar(&c.Verbose, "verbose", c.Verbose, "print verbose output")
}

func usage() {
	log.Println("usage: lapsecam [flags] file_prefix lag_seconds start_number")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	os.Exit(main0(args))
}

// settings combines defaults, the config file, positional arguments and
// explicitly set flags, in increasing order of precedence.
func settings(args []string) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}

	if len(args) == 3 {
		cfg.Prefix = args[0]
		lag, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return cfg, &config.ValidationError{Field: "lag_seconds", Reason: err.Error()}
		}
		cfg.LagSeconds = lag
		start, err := strconv.Atoi(args[2])
		if err != nil {
			return cfg, &config.ValidationError{Field: "start_number", Reason: err.Error()}
		}
		cfg.StartNumber = start
	}

	f := flagConfig
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "camera":
			cfg.Camera = f.Camera
		case "type":
			cfg.Type = f.Type
		case "resolution":
			cfg.Resolution = f.Resolution
		case "select":
			cfg.SelectResolution = f.SelectResolution
		case "digits":
			cfg.Digits = f.Digits
		case "fps":
			cfg.FPS = f.FPS
		case "backend":
			cfg.Backend = f.Backend
		case "device":
			cfg.Device = f.Device
		case "no-network":
			cfg.NoNetwork = f.NoNetwork
		case "cache":
			cfg.Cache = f.Cache
		case "verbose":
			cfg.Verbose = f.Verbose
		}
	})
	return cfg, cfg.Validate()
}

func main0(args []string) int {
	if listDevices {
		devs, err := backend.ListDevices()
		if err != nil {
			log.Printf("listing devices: %v", err)
			return 1
		}
		for _, dev := range devs {
			fmt.Printf("%s: %s\n", dev.ID, dev.Name)
		}
		return 0
	}

	if len(args) != 3 && (len(args) != 0 || configPath == "") {
		usage()
	}
	cfg, err := settings(args)
	if err != nil {
		log.Printf("%v", err)
		return 2
	}

	bopts := backend.Opts{Name: cfg.Backend, Device: cfg.Device, Verbose: cfg.Verbose}
	opener, err := backend.Opener(bopts)
	if err != nil {
		log.Printf("%v", err)
		return 2
	}

	target := cfg.Target()
	if cfg.SelectResolution {
		loader := &resolution.Loader{
			Fetcher:   &resolution.WikipediaFetcher{},
			CachePath: cfg.Cache,
			Fallback:  resolution.DefaultCatalog(),
			Verbose:   cfg.Verbose,
		}
		r, ok, err := resolution.Pick(context.Background(), loader, !cfg.NoNetwork, opener, cfg.Camera, os.Stdin, os.Stdout)
		switch {
		case errors.Is(err, lapsecam.ErrCatalogUnavailable):
			log.Printf("%v, keeping the camera's resolution", err)
		case err != nil:
			log.Printf("selecting resolution: %v", err)
			return 1
		case !ok:
			log.Printf("user exit")
			return 0
		default:
			target = &r
		}
	}

	opts := capture.Options{
		Prefix:    cfg.Prefix,
		Interval:  cfg.Lag(),
		Start:     cfg.StartNumber,
		Digits:    cfg.Digits,
		Ext:       cfg.Type,
		Target:    target,
		FrameRate: cfg.FPS,
		Verbose:   cfg.Verbose,
	}
	session, err := capture.Open(opener, cfg.Camera, opts)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	display, err := backend.Display(bopts, os.Stdin)
	if err != nil {
		session.Close()
		log.Printf("%v", err)
		return 1
	}
	if cfg.Backend == backend.Ffmpeg {
		log.Printf("no window, type space, f or q followed by enter")
	}
	if err := session.Run(display); err != nil {
		log.Printf("%v", err)
		return 1
	}

	if err := capture.WriteInstructions(os.Stdout, session.Summary()); err != nil {
		log.Printf("writing instructions: %v", err)
		return 1
	}
	return 0
}
