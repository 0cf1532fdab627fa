package capture

import (
	"fmt"
	"io"
)

// pattern returns the ffmpeg image2 input pattern for frames with the given
// pad width.
func pattern(prefix string, pad int, ext string) string {
	return fmt.Sprintf("%s%%0%dd.%s", prefix, pad, ext)
}

// WriteInstructions writes example ffmpeg invocations that combine the frames
// described by sum into a video.
func WriteInstructions(w io.Writer, sum Summary) error {
	in := pattern(sum.Prefix, sum.Pad, sum.Ext)
	_, err := fmt.Fprintf(w, `
Example ffmpeg calls to combine frames into a video:

    30 FPS:
        ffmpeg -start_number %d -i "%s" -vcodec libx264 output_timelapse.mp4

    60 FPS:
        ffmpeg -start_number %d -i "%s" -filter:v "setpts=0.5*PTS" -vcodec libx264 -r 60 output.mp4
`, sum.Start, in, sum.Start, in)
	if err != nil {
		return err
	}
	if sum.WidenedAt >= 0 {
		_, err = fmt.Fprintf(w, `
Frames from index %d on have %d digits, they need a separate input:
        ffmpeg -start_number %d -i "%s" -vcodec libx264 output_timelapse_2.mp4
`, sum.WidenedAt, sum.FinalPad, sum.WidenedAt, pattern(sum.Prefix, sum.FinalPad, sum.Ext))
	}
	return err
}
