package imagerecognizer

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // jpeg decoder
	"image/png"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-pkgz/fileutils"
	_ "golang.org/x/image/webp" // webp decoder

	"github.com/umputun/scam-spotter/lib/scam"
)

// darkLightness is the average lightness below which the image is inverted before recognition,
// tesseract expects dark text on light background
const darkLightness = 80

// Tesseract runs local tesseract binary with tsv output
type Tesseract struct {
	Binary   string // path to tesseract, "tesseract" if not set
	Language string // tesseract -l value, default language of the binary if empty
	TempDir  string // directory for inverted copies of dark images, os.TempDir if empty
}

// Extract recognizes words on the image, dark images are inverted first
func (t *Tesseract) Extract(ctx context.Context, path string) ([]scam.OCRToken, error) {
	src, cleanup, err := t.prepare(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	binary := t.Binary
	if binary == "" {
		binary = "tesseract"
	}
	args := []string{src, "stdout"}
	if t.Language != "" {
		args = append(args, "-l", t.Language)
	}
	args = append(args, "tsv")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec // binary is set by admin
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract failed on %s: %w, %s", path, err, strings.TrimSpace(stderr.String()))
	}
	tokens, err := parseTSV(&stdout)
	if err != nil {
		return nil, fmt.Errorf("can't parse tesseract output for %s: %w", path, err)
	}
	log.Printf("[DEBUG] tesseract recognized %d words on %s", len(tokens), path)
	return tokens, nil
}

// prepare returns the path to recognize, an inverted temporary copy for dark images
func (t *Tesseract) prepare(path string) (res string, cleanup func(), err error) {
	noop := func() {}
	fh, err := os.Open(path) //nolint:gosec // path is made by fetcher
	if err != nil {
		return "", noop, fmt.Errorf("can't open image %s: %w", path, err)
	}
	img, _, err := image.Decode(fh)
	_ = fh.Close()
	if err != nil {
		// let tesseract try formats we can't decode
		log.Printf("[DEBUG] can't decode %s, recognized as is: %v", path, err)
		return path, noop, nil
	}
	if scam.Lightness(img) >= darkLightness {
		return path, noop, nil
	}

	tmp, err := fileutils.TempFileName(t.TempDir, "inverted-*.png")
	if err != nil {
		return "", noop, fmt.Errorf("can't make temp file: %w", err)
	}
	out, err := os.Create(tmp) //nolint:gosec // temp file name
	if err != nil {
		return "", noop, fmt.Errorf("can't create %s: %w", tmp, err)
	}
	cleanup = func() {
		if e := os.Remove(tmp); e != nil {
			log.Printf("[WARN] can't remove %s: %v", tmp, e)
		}
	}
	if err := png.Encode(out, invert(img)); err != nil {
		_ = out.Close()
		cleanup()
		return "", noop, fmt.Errorf("can't encode inverted image: %w", err)
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("can't close %s: %w", tmp, err)
	}
	log.Printf("[DEBUG] dark image %s inverted to %s", path, tmp)
	return tmp, cleanup, nil
}

func invert(img image.Image) *image.NRGBA {
	b := img.Bounds()
	res := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			res.SetNRGBA(x, y, color.NRGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: c.A})
		}
	}
	return res
}

// parseTSV reads tesseract tsv output. Columns are level, page_num, block_num, par_num, line_num, word_num,
// left, top, width, height, conf, text. Only word rows (conf != -1) are returned, lines are numbered
// through the whole page.
func parseTSV(r io.Reader) ([]scam.OCRToken, error) {
	res := []scam.OCRToken{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line, lastKey := -1, ""
	for n := 0; scanner.Scan(); n++ {
		if n == 0 {
			continue // header
		}
		cols := strings.Split(scanner.Text(), "\t")
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(strings.TrimSpace(cols[10]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad confidence %q in row %d", cols[10], n)
		}
		text := strings.TrimSpace(cols[11])
		if conf < 0 || text == "" {
			continue
		}
		if key := cols[2] + "/" + cols[3] + "/" + cols[4]; key != lastKey {
			line++
			lastKey = key
		}
		nums := make([]int, 4)
		for i := range nums {
			if nums[i], err = strconv.Atoi(cols[6+i]); err != nil {
				return nil, fmt.Errorf("bad box %q in row %d", cols[6+i], n)
			}
		}
		res = append(res, scam.OCRToken{Text: text, Confidence: int(conf), Line: line,
			Left: nums[0], Top: nums[1], Width: nums[2], Height: nums[3]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
