package resolution

import (
	"context"
	"fmt"
	"io"

	"github.com/lapsecam/lapsecam"
	"github.com/lapsecam/lapsecam/camera"
)

// Pick loads the catalog, probes camera index with it and lets the user
// select one of the valid resolutions. For no selection, ok is false.
func Pick(ctx context.Context, loader *Loader, allowNetwork bool, open camera.Opener, index int, in io.Reader, out io.Writer) (r lapsecam.Resolution, ok bool, rerr error) {
	fmt.Fprintf(out, "\nLoading list of common resolutions...\n")
	catalog, err := loader.Load(ctx, allowNetwork)
	if err != nil {
		return r, false, err
	}
	fmt.Fprintf(out, "\nProbing camera %d with %d resolutions...\n", index, len(catalog))
	valid, err := Probe(open, index, catalog)
	if err != nil {
		return r, false, err
	}
	fmt.Fprintf(out, "\n\t... found %d valid resolutions!\n", len(valid))
	return Select(in, out, valid)
}
