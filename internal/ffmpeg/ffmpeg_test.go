package ffmpeg

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestArgsQuicktimeH264(t *testing.T) {
	args, err := Options{Width: 64, Height: 48, FPS: 24, Codec: "H264", Container: "QUICKTIME"}.Args("out.mov")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"libx264", "64x48", "24", "mov", "yuv420p", "rawvideo", "rgba", "-y"} {
		if !slices.Contains(args, want) {
			t.Errorf("args %v missing %q", args, want)
		}
	}
	in := slices.Index(args, "-i")
	if in < 0 || args[in+1] != "pipe:" {
		t.Errorf("args %v do not read frames from stdin", args)
	}
	out := slices.Index(args, "out.mov")
	if out < in {
		t.Errorf("output path precedes input in %v", args)
	}
	if c := slices.Index(args, "-c:v"); c < in || c > out {
		t.Errorf("codec is not an output option in %v", args)
	}
}

func TestArgsFractionalRate(t *testing.T) {
	args, err := Options{Width: 2, Height: 2, FPS: 29.97, Codec: "PNG", Container: "MKV"}.Args("out.mkv")
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-framerate 29.97") {
		t.Errorf("args %q missing input frame rate", joined)
	}
	if slices.Contains(args, "yuv420p") {
		t.Errorf("png stream should keep rgba: %q", joined)
	}
}

func TestArgsUnsupported(t *testing.T) {
	tests := []Options{
		{Codec: "DNXHD", Container: "QUICKTIME"},
		{Codec: "H264", Container: "OGG"},
	}
	for _, o := range tests {
		if _, err := o.Args("x"); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%+v: err = %v, want ErrUnsupported", o, err)
		}
	}
}

func TestStartMissingBinary(t *testing.T) {
	_, err := Start("definitely-not-ffmpeg-binary", "out.mov", Options{Width: 2, Height: 2, FPS: 24, Codec: "H264", Container: "QUICKTIME"})
	if err == nil {
		t.Fatal("expected lookup error")
	}
}
