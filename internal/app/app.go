package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/cigate/internal/javadoc"
	"github.com/hyperifyio/cigate/internal/latex"
	"github.com/hyperifyio/cigate/internal/pdf"
)

// ErrIncompleteRecords is returned when at least one method section was
// dropped for missing information. Output for the remaining methods has
// still been written.
var ErrIncompleteRecords = errors.New("incomplete test documentation")

// Result summarizes one extraction run.
type Result struct {
	Input   string
	Output  string
	Title   string
	Written int
	Dropped []javadoc.Incomplete
	// Deleted is set when the output was removed because nothing was written.
	Deleted bool
}

// UTP renders unit test plan tables from Javadoc pages.
type UTP struct {
	cfg      Config
	schema   javadoc.Schema
	renderer latex.Renderer
}

// NewUTP resolves the schema and loads templates. Configuration problems
// are reported before any file is opened.
func NewUTP(cfg Config) (*UTP, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	schema, _ := javadoc.SchemaByName(cfg.Schema)
	if cfg.SkipNonTests {
		schema.SkipNonTests = true
	}
	var tpl latex.Templates
	if schema.Type == javadoc.SimpleType {
		var err error
		if tpl, err = latex.LoadTemplates(cfg.TemplatesDir); err != nil {
			return nil, err
		}
	}
	return &UTP{cfg: cfg, schema: schema, renderer: latex.ForSchema(schema.Type, cfg.CodeMacro, cfg.RawLaTeX, tpl)}, nil
}

// Run processes the configured input, or every file matched by the glob.
func (u *UTP) Run() ([]Result, error) {
	if strings.TrimSpace(u.cfg.Glob) == "" {
		res, err := u.RunFile(u.cfg.InputPath, u.cfg.OutputPath)
		return []Result{res}, err
	}
	inputs, err := doublestar.FilepathGlob(u.cfg.Glob)
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %v", ErrInvalidConfig, u.cfg.Glob, err)
	}
	sort.Strings(inputs)
	if len(inputs) == 0 {
		log.Warn().Str("glob", u.cfg.Glob).Msg("no documentation pages matched")
	}
	if err := os.MkdirAll(u.cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir output dir: %w", err)
	}

	var (
		results    []Result
		incomplete int
		outputs    = map[string]string{}
	)
	for _, in := range inputs {
		out := deriveOutputPath(u.cfg.OutDir, in, ".tex")
		if prev, ok := outputs[out]; ok {
			log.Warn().Str("input", in).Str("previous", prev).Str("out", out).Msg("output shared with another page; appending")
		}
		outputs[out] = in
		res, err := u.RunFile(in, out)
		results = append(results, res)
		if errors.Is(err, ErrIncompleteRecords) {
			incomplete++
			continue
		}
		if err != nil {
			return results, err
		}
	}
	if incomplete > 0 {
		return results, fmt.Errorf("%w: %d of %d pages", ErrIncompleteRecords, incomplete, len(inputs))
	}
	return results, nil
}

// RunFile extracts the records of one page and appends them to output.
// A malformed page aborts before output is opened.
func (u *UTP) RunFile(input, output string) (Result, error) {
	res := Result{Input: input, Output: output}

	in, err := os.Open(input)
	if err != nil {
		return res, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	ex, err := javadoc.NewExtractor(in, input, u.schema)
	if err != nil {
		return res, err
	}
	res.Title = ex.Title()
	if res.Title == "" {
		res.Title = baseTitle(input)
	}

	prev, err := fileSize(output)
	if err != nil {
		return res, fmt.Errorf("stat output: %w", err)
	}
	records, entries, err := u.render(ex, res.Title, output)
	if err != nil {
		return res, err
	}
	res.Written = len(records)
	res.Dropped = ex.Dropped()

	if res.Written == 0 && !u.cfg.KeepEmpty {
		if res.Deleted, err = undoEmpty(output, prev); err != nil {
			return res, err
		}
	}

	if u.cfg.PDF && res.Written > 0 {
		p := u.cfg.PDFPath
		if p == "" || strings.TrimSpace(u.cfg.Glob) != "" {
			p = replaceExt(output, ".pdf")
		}
		if err := pdf.Write(p, res.Title, u.schema, records); err != nil {
			return res, fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", p).Msg("wrote pdf")
	}

	if u.cfg.Manifest {
		if err := writeManifest(output, u.manifestMeta(res), entries, manifestDroppedFrom(res.Dropped)); err != nil {
			return res, fmt.Errorf("write manifest: %w", err)
		}
	}

	if n := len(res.Dropped); n > 0 {
		return res, fmt.Errorf("%w: %d method(s) in %s", ErrIncompleteRecords, n, input)
	}
	return res, nil
}

// render appends the table for every complete record to output. The file
// is opened in append mode so several pages can share one document.
func (u *UTP) render(ex *javadoc.Extractor, title, output string) ([]javadoc.MethodRecord, []manifestEntry, error) {
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if err := u.renderer.Begin(w, title); err != nil {
		return nil, nil, fmt.Errorf("write output: %w", err)
	}
	var (
		records []javadoc.MethodRecord
		entries []manifestEntry
		buf     strings.Builder
	)
	for {
		rec, err := ex.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		buf.Reset()
		if err := u.renderer.Record(&buf, rec); err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", rec.Method, err)
		}
		if _, err := w.WriteString(buf.String()); err != nil {
			return nil, nil, fmt.Errorf("write output: %w", err)
		}
		records = append(records, rec)
		entries = append(entries, newManifestEntry(len(entries)+1, rec.Method, rec.Line, buf.String()))
		log.Info().Str("method", rec.Method).Msgf("Finished writing test case %s() to output file.", rec.Method)
	}
	if err := u.renderer.End(w); err != nil {
		return nil, nil, fmt.Errorf("write output: %w", err)
	}
	if err := w.Flush(); err != nil {
		return nil, nil, fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, nil, fmt.Errorf("close output: %w", err)
	}
	return records, entries, nil
}

// fileSize returns the size of path, or -1 when it does not exist.
func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// undoEmpty reverts output after a page that wrote no test case. A file
// that was new or empty is removed; one shared with earlier pages is cut
// back to prev so their rows survive. It reports whether the file was
// removed.
func undoEmpty(output string, prev int64) (bool, error) {
	if prev <= 0 {
		if err := os.Remove(output); err != nil && !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("remove empty output: %w", err)
		}
		log.Info().Str("out", output).Msg("no test cases written; removed output")
		return true, nil
	}
	if err := os.Truncate(output, prev); err != nil {
		return false, fmt.Errorf("truncate output: %w", err)
	}
	log.Info().Str("out", output).Int64("size", prev).Msg("no test cases written; output restored")
	return false, nil
}

func (u *UTP) manifestMeta(res Result) manifestMeta {
	return manifestMeta{
		Tool:    "utpdoc",
		Version: BuildVersion,
		Schema:  string(u.schema.Type),
		Input:   res.Input,
		Output:  res.Output,
		Title:   res.Title,
		Written: res.Written,
		Deleted: res.Deleted,
	}
}

func manifestDroppedFrom(in []javadoc.Incomplete) []manifestDropped {
	out := make([]manifestDropped, 0, len(in))
	for _, d := range in {
		md := manifestDropped{Method: d.Method, Line: d.Line, NotTest: d.NotTest}
		for _, f := range d.Missing {
			md.Missing = append(md.Missing, f.String())
		}
		out = append(out, md)
	}
	return out
}
