// Command lapseres probes a camera for the common resolutions it supports. The
// list of candidates is downloaded from Wikipedia, or read from a local cache
// when offline or when the download fails.
//
// Examples:
//
//	# List the resolutions camera 0 accepts.
//	lapseres
//
//	# Refresh the cache, then pick one of the resolutions of camera 1.
//	lapseres -update-cache -select -camera 1
//
//	# Offline, with ffmpeg.
//	lapseres -no-network -backend ffmpeg -device /dev/video2
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lapsecam/lapsecam/camera/backend"
	"github.com/lapsecam/lapsecam/resolution"
)

var (
	camera      int
	backendName string
	device      string
	noNetwork   bool
	cache       string
	updateCache bool
	selectRes   bool
	verbose     bool
)

func init() {
	flag.IntVar(&camera, "camera", 0, "camera index")
	flag.StringVar(&backendName, "backend", backend.Gocv, "camera backend, gocv or ffmpeg")
	flag.StringVar(&device, "device", "", "for ffmpeg, device path to use instead of /dev/video<camera>")
	flag.BoolVar(&noNetwork, "no-network", false, "don't download the resolution list, use the cache")
	flag.StringVar(&cache, "cache", resolution.DefaultCachePath, "resolution list cache file")
	flag.BoolVar(&updateCache, "update-cache", false, "write the downloaded resolution list to the cache")
	flag.BoolVar(&selectRes, "select", false, "choose one of the valid resolutions interactively, and print it")
	flag.BoolVar(&verbose, "verbose", false, "print verbose output")
}

func usage() {
	log.Println("usage: lapseres [flags]")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) != 0 {
		usage()
	}
	os.Exit(main0())
}

func main0() int {
	if updateCache && noNetwork {
		log.Printf("-update-cache needs the network")
		return 2
	}

	opener, err := backend.Opener(backend.Opts{Name: backendName, Device: device, Verbose: verbose})
	if err != nil {
		log.Printf("%v", err)
		return 2
	}

	fetcher := &resolution.WikipediaFetcher{}
	ctx := context.Background()
	if updateCache {
		c, err := fetcher.Fetch(ctx)
		if err != nil {
			log.Printf("downloading resolutions: %v", err)
			return 1
		}
		if err := resolution.WriteCache(cache, c); err != nil {
			log.Printf("%v", err)
			return 1
		}
		log.Printf("wrote %d resolutions to %s", len(c), cache)
	}

	loader := &resolution.Loader{Fetcher: fetcher, CachePath: cache, Fallback: resolution.DefaultCatalog(), Verbose: verbose}
	if selectRes {
		r, ok, err := resolution.Pick(ctx, loader, !noNetwork && !updateCache, opener, camera, os.Stdin, os.Stdout)
		if err != nil {
			log.Printf("%v", err)
			return 1
		}
		if !ok {
			log.Printf("user exit")
			return 0
		}
		fmt.Println(r)
		return 0
	}

	catalog, err := loader.Load(ctx, !noNetwork && !updateCache)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	valid, err := resolution.Probe(opener, camera, catalog)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	log.Printf("camera %d accepts %d of %d resolutions", camera, len(valid), len(catalog))
	for _, r := range valid {
		fmt.Println(r)
	}
	return 0
}
