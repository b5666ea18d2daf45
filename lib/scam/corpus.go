package scam

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// checker types of the corpus records
const (
	TypeOCR      = "ocr"
	TypeText     = "text"
	TypeImage    = "img"
	TypeFunction = "function"
)

// Corpus is an immutable set of checkers loaded from the scams file
type Corpus struct {
	checkers []Checker
}

// record is a single corpus entry, variant fields are used depending on the type
type record struct {
	Info
	OCR      []string        `json:"ocr"`
	Title    []string        `json:"title"`
	Body     []string        `json:"body"`
	Img      json.RawMessage `json:"img"`
	Function string          `json:"function"`
}

// NewCorpus makes a corpus from checkers. Empty corpus and duplicate names are configuration errors.
func NewCorpus(checkers ...Checker) (*Corpus, error) {
	if len(checkers) == 0 {
		return nil, &ConfigError{Err: errors.New("no checkers in corpus")}
	}
	seen := make(map[string]bool, len(checkers))
	for _, ch := range checkers {
		name := ch.Info().Name
		if seen[name] {
			return nil, &ConfigError{Checker: name, Err: errors.New("duplicate checker name")}
		}
		seen[name] = true
	}
	return &Corpus{checkers: checkers}, nil
}

// LoadCorpusFile loads corpus from a json file
func LoadCorpusFile(path string, funcs FunctionLookup) (*Corpus, error) {
	fh, err := os.Open(path) //nolint:gosec // path from config
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to open corpus %s: %w", path, err)}
	}
	defer fh.Close()
	return LoadCorpus(fh, funcs)
}

// LoadCorpus reads {"scams": [...]} records and makes a checker for each one.
// All broken records are reported together in a single ConfigError.
func LoadCorpus(r io.Reader, funcs FunctionLookup) (*Corpus, error) {
	var data struct {
		Scams []record `json:"scams"`
	}
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to decode corpus: %w", err)}
	}

	var errs *multierror.Error
	checkers := make([]Checker, 0, len(data.Scams))
	for i, rec := range data.Scams {
		ch, err := rec.checker(funcs)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("record #%d: %w", i, err))
			continue
		}
		checkers = append(checkers, ch)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return NewCorpus(checkers...)
}

// checker dispatches the record to the checker variant by type, "ocr" is the default
func (r record) checker(funcs FunctionLookup) (Checker, error) {
	if r.Name == "" {
		return nil, errors.New("checker name is required")
	}
	if r.Type == "" {
		r.Type = TypeOCR
	}
	switch r.Type {
	case TypeOCR:
		return NewOCRChecker(r.Info, r.OCR)
	case TypeText:
		return NewTextChecker(r.Info, r.Title, r.Body)
	case TypeImage:
		names, err := r.imageNames()
		if err != nil {
			return nil, &ConfigError{Checker: r.Name, Err: err}
		}
		return NewImageChecker(r.Info, names)
	case TypeFunction:
		return NewFunctionChecker(r.Info, r.Function, funcs)
	default:
		return nil, &ConfigError{Checker: r.Name, Err: fmt.Errorf("unknown checker type %q", r.Type)}
	}
}

// imageNames accepts "img" as a single string or a list of strings
func (r record) imageNames() ([]string, error) {
	if len(r.Img) == 0 {
		return nil, nil
	}
	var one string
	if err := json.Unmarshal(r.Img, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(r.Img, &many); err != nil {
		return nil, fmt.Errorf("img should be a string or a list of strings: %w", err)
	}
	return many, nil
}

// Checkers returns checkers in corpus order. The slice is shared, callers must not modify it.
func (c *Corpus) Checkers() []Checker { return c.checkers }

// Len returns number of checkers
func (c *Corpus) Len() int { return len(c.checkers) }

// Names returns sorted checker names
func (c *Corpus) Names() []string {
	res := make([]string, 0, len(c.checkers))
	for _, ch := range c.checkers {
		res = append(res, ch.Info().Name)
	}
	sort.Strings(res)
	return res
}

// Count returns number of checkers per type
func (c *Corpus) Count() map[string]int {
	res := map[string]int{}
	for _, ch := range c.checkers {
		res[ch.Info().Type]++
	}
	return res
}
