// Package imagerecognizer provides OCR services recognizing words on images with their boxes and confidence.
// OpenAI and Gemini are asked to answer with a json list of words, Tesseract is called as a local binary.
// Any of them can be wrapped with Cached, and images urls are downloaded by Fetcher.
package imagerecognizer

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/umputun/scam-spotter/lib/scam"
)

// maxImageSize limits the image sent to remote OCR services
const maxImageSize = 20 * 1024 * 1024

const ocrPrompt = `You are an optical character recognition system. Extract every word visible on the image.
Answer with a json object {"words": [...]} and nothing else. Each word is an object with fields:
"text" (the word as written, same language as on the image), "conf" (recognition confidence 0-100),
"line" (0-based line number, top to bottom), "left", "top", "width", "height" (word box in pixels).
Keep the reading order. If there is no text, return {"words": []}.`

type llmAnswer struct {
	Words []scam.OCRToken `json:"words"`
}

// parseAnswer decodes the words list, answer may be wrapped in markdown code fences
func parseAnswer(text string) ([]scam.OCRToken, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	var ans llmAnswer
	if err := json.Unmarshal([]byte(text), &ans); err != nil {
		return nil, fmt.Errorf("can't unmarshal ocr answer: %w", err)
	}
	res := make([]scam.OCRToken, 0, len(ans.Words))
	for _, w := range ans.Words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		w.Confidence = max(0, min(100, w.Confidence))
		res = append(res, w)
	}
	return res, nil
}

// readImage loads the image file and detects its mime type
func readImage(path string) (data []byte, mimeType string, err error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("can't stat image %s: %w", path, err)
	}
	if st.Size() > maxImageSize {
		return nil, "", fmt.Errorf("image %s is too large, %d bytes", path, st.Size())
	}
	data, err = os.ReadFile(path) //nolint:gosec // path is made by fetcher
	if err != nil {
		return nil, "", fmt.Errorf("can't read image %s: %w", path, err)
	}
	mimeType = http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("%s is not an image", path)
	}
	return data, mimeType, nil
}
