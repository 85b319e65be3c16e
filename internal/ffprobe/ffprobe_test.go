package ffprobe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hevcify/hevcify/internal/errors"
)

func loadTestData(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("loading fixture %s: %v", name, err)
	}
	return data
}

func parseFixture(t *testing.T, name string) *probeOutput {
	t.Helper()
	probe, err := parseOutput(loadTestData(t, name))
	if err != nil {
		t.Fatalf("parseOutput(%s) error = %v", name, err)
	}
	return probe
}

func TestParseOutput(t *testing.T) {
	probe := parseFixture(t, "h264_source.json")

	if len(probe.Streams) != 2 {
		t.Fatalf("parsed %d streams, want 2", len(probe.Streams))
	}
	if probe.Streams[0].CodecType != "video" || probe.Streams[0].CodecName != "h264" {
		t.Errorf("first stream = %s/%s, want video/h264", probe.Streams[0].CodecType, probe.Streams[0].CodecName)
	}
	if probe.Format.Duration != "160.227000" {
		t.Errorf("duration = %q, want 160.227000", probe.Format.Duration)
	}
}

func TestParseOutputMalformed(t *testing.T) {
	_, err := parseOutput([]byte("not json at all"))
	if err == nil {
		t.Fatal("parseOutput should fail on malformed input")
	}
	if !errors.IsKind(err, errors.KindParse) {
		t.Errorf("error kind = %v, want KindParse", err)
	}
}

func TestExtractVideoCodec(t *testing.T) {
	tests := []struct {
		fixture string
		want    string
	}{
		{"h264_source.json", "h264"},
		{"hevc_output.json", "hevc"},
		// The first stream of type video wins, even when it is cover art.
		{"cover_art_first.json", "mjpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			probe := parseFixture(t, tt.fixture)
			got, err := extractVideoCodec(probe, tt.fixture)
			if err != nil {
				t.Fatalf("extractVideoCodec() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("extractVideoCodec() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractVideoCodecNoVideoStream(t *testing.T) {
	probe := parseFixture(t, "audio_only.json")

	_, err := extractVideoCodec(probe, "podcast.mp4")
	if err == nil {
		t.Fatal("extractVideoCodec should fail without a video stream")
	}
	if !errors.IsKind(err, errors.KindProbe) {
		t.Errorf("error kind = %v, want KindProbe", err)
	}
}

func TestExtractDuration(t *testing.T) {
	tests := []struct {
		fixture string
		want    float64
	}{
		{"h264_source.json", 160.227},
		{"hevc_output.json", 160.251},
		{"audio_only.json", 1801.56},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			probe := parseFixture(t, tt.fixture)
			got, err := extractDuration(probe, tt.fixture)
			if err != nil {
				t.Fatalf("extractDuration() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("extractDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractDurationMissing(t *testing.T) {
	probe := &probeOutput{}

	_, err := extractDuration(probe, "empty.mp4")
	if err == nil {
		t.Fatal("extractDuration should fail when the container reports none")
	}
	if !errors.IsKind(err, errors.KindProbe) {
		t.Errorf("error kind = %v, want KindProbe", err)
	}
}

func TestExtractDurationUnparsable(t *testing.T) {
	probe := &probeOutput{Format: probeFormat{Duration: "N/A"}}

	_, err := extractDuration(probe, "weird.mp4")
	if err == nil {
		t.Fatal("extractDuration should fail on a non-numeric duration")
	}
	if !errors.IsKind(err, errors.KindParse) {
		t.Errorf("error kind = %v, want KindParse", err)
	}
}
