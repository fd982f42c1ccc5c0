package recorder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
)

// framePattern is the printf-style name of captured frames, shared by
// the capture loop and the ffmpeg input argument.
const framePattern = "frame_%06d.png"

// Encoder runs ffmpeg to turn captured frames into an H.264 video.
type Encoder struct {
	path string
}

// NewEncoder locates the ffmpeg binary. An explicit path skips the PATH
// lookup.
func NewEncoder(path string) (*Encoder, error) {
	if path != "" {
		return &Encoder{path: path}, nil
	}
	found, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, ErrFFmpegNotFound
	}
	return &Encoder{path: found}, nil
}

// EncodeArgs builds the ffmpeg arguments for encoding numbered PNG
// frames captured at captureFPS into an H.264 MP4 at videoFPS. The
// yuv420p pixel format keeps the output playable in browsers and
// QuickTime.
func EncodeArgs(framesDir string, captureFPS, videoFPS int, outputPath string) []string {
	return []string{
		"-y",
		"-framerate", strconv.Itoa(captureFPS),
		"-i", filepath.Join(framesDir, framePattern),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(videoFPS),
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		outputPath,
	}
}

// Encode runs ffmpeg over the frames in framesDir and writes the video
// to outputPath.
func (e *Encoder) Encode(ctx context.Context, framesDir string, captureFPS, videoFPS int, outputPath string) error {
	cmd := exec.CommandContext(ctx, e.path, EncodeArgs(framesDir, captureFPS, videoFPS, outputPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("recorder: ffmpeg: %w: %s", err, lastLine(stderr.Bytes()))
	}
	return nil
}

// lastLine returns the final non-empty line of ffmpeg's stderr, which
// carries the actual error message under pages of banner output.
func lastLine(out []byte) string {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if line := bytes.TrimSpace(lines[i]); len(line) > 0 {
			return string(line)
		}
	}
	return ""
}
