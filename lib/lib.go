// Package lib provides functionality for scam detection in user content: posts, comments and messages
// with attached images. The primary type is scam.Detector, which scores a content item against a corpus
// of checkers and reports the ones matched with enough confidence.
//
// The Detector is designed to be thread-safe and supports concurrent usage. The corpus can be replaced
// at any time with Detector.Reload or Detector.LoadCorpusFile, running checks keep the corpus they started with.
//
// The corpus is a json document with the list of checkers, see scam.LoadCorpus:
//
//	{"scams": [
//	  {"name": "nitro", "type": "ocr", "ocr": ["claim your free nitro"], "blacklist": ["official partner"]},
//	  {"name": "steam", "type": "text", "title": ["free steam gift"], "body": ["steam gift card"]},
//	  {"name": "gift", "type": "img", "img": ["gift-*.png"]},
//	  {"name": "dark", "type": "function", "function": "dark_image"}
//	]}
//
// Checker types:
//
//   - ocr: phrases are matched against text recognized on every attached image. Requires Detector.WithOCR,
//     images are skipped without an OCR service.
//
//   - text: phrases are matched against the title and the body of the item.
//
//   - img: reference images from the "images" sub-directory of Config.DataDir are searched on attached
//     images with the template matcher set by Detector.WithMatcher, imgmatch.Matcher is the default one.
//
//   - function: a named heuristic over image pixels from scam.Registry. Lua scripts can be registered
//     with the scam/lua package.
//
// Phrases are matched approximately, tolerant to OCR mistakes, squashed words and missing words.
// A phrase word prefixed with "!" weighs more, a missing weighted word lowers the score more.
// Every checker may define blacklist phrases: a checker is dropped if any of its blacklist phrases
// is found in the title, the body, any image or in all of them taken together.
//
// Config provides configuration options:
//
//   - Config.Threshold is the minimal score of a hit, scam.DefaultThreshold if not set.
//
//   - Config.MaxImages limits the number of images of a single item, 0 for unlimited.
//
//   - Config.OCRConcurrency is the number of images recognized concurrently.
//
//   - Config.HistorySize is the number of recent verdicts kept in memory, see Detector.LastVerdicts.
//
//   - Config.RenderDir, if set, makes the detector save annotated copies of checked images.
//
// Request and verdict types shared with clients are defined in the scamcheck package.
package lib
