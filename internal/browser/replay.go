package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"sleuth/internal/textutil"
)

// replayFormDocument is the synthetic portal form a replay page renders after
// navigation. It carries the portal's query input and submit control so a
// session can walk its interactive steps against recorded data.
const replayFormDocument = `<!DOCTYPE html>
<html>
<body>
<form id="searchForm">
<input id="QueryString" name="QueryString" type="text" value="">
<button id="nodeW20" type="submit">Search</button>
</form>
</body>
</html>`

// replayNoResultsDocument stands in for queries with no recorded capture.
const replayNoResultsDocument = `<!DOCTYPE html>
<html>
<body>
<div class="appResultsEmpty">No results found</div>
</body>
</html>`

// captureSuffix mirrors the artifacts sink naming so a prior run's captures
// replay directly.
const captureSuffix = "_results.html"

var errPageClosed = errors.New("replay page closed")

// ReplayDriver serves recorded result documents instead of driving a live
// engine. Each page renders the synthetic search form; filling the query
// input stages the capture named after the sanitized query, and clicking the
// submit control swaps the rendered document for it. Queries without a
// capture render a no-results document.
type ReplayDriver struct {
	dir string
}

var _ Driver = (*ReplayDriver)(nil)

// NewReplayDriver builds a driver reading captures from dir.
func NewReplayDriver(dir string) (*ReplayDriver, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("replay driver: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("replay driver: %s is not a directory", dir)
	}
	return &ReplayDriver{dir: dir}, nil
}

// NewPage returns a fresh page rendering nothing until Navigate is called.
func (d *ReplayDriver) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &replayPage{dir: d.dir}, nil
}

// Close releases nothing; the driver holds no resources.
func (d *ReplayDriver) Close() error { return nil }

type replayPage struct {
	dir string

	mu       sync.Mutex
	document string
	pending  string
	closed   bool
}

var _ Page = (*replayPage)(nil)

func (p *replayPage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usable(ctx); err != nil {
		return err
	}
	p.document = replayFormDocument
	p.pending = ""
	return nil
}

func (p *replayPage) Locate(ctx context.Context, locator Locator) ([]Control, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usable(ctx); err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.document))
	if err != nil {
		return nil, fmt.Errorf("replay page: parse document: %w", err)
	}
	var controls []Control
	doc.Find(locator.Selector).Each(func(_ int, sel *goquery.Selection) {
		text := textutil.CollapseWhitespace(sel.Text())
		if !locator.MatchesText(text) {
			return
		}
		controls = append(controls, &replayControl{page: p, text: text, submits: isSubmitControl(sel)})
	})
	return controls, nil
}

func (p *replayPage) Fill(ctx context.Context, locator Locator, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usable(ctx); err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.document))
	if err != nil {
		return fmt.Errorf("replay page: parse document: %w", err)
	}
	matched := false
	doc.Find(locator.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if locator.MatchesText(textutil.CollapseWhitespace(sel.Text())) {
			matched = true
			return false
		}
		return true
	})
	if !matched {
		return fmt.Errorf("replay page: no element matches %s", locator)
	}
	p.pending = p.lookupCapture(text)
	return nil
}

func (p *replayPage) Content(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usable(ctx); err != nil {
		return "", err
	}
	return p.document, nil
}

func (p *replayPage) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// usable is called with p.mu held.
func (p *replayPage) usable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.closed {
		return errPageClosed
	}
	return nil
}

func (p *replayPage) lookupCapture(query string) string {
	name := textutil.SanitizeFileName(query)
	if name == "" {
		return replayNoResultsDocument
	}
	data, err := os.ReadFile(filepath.Join(p.dir, name+captureSuffix))
	if err != nil {
		return replayNoResultsDocument
	}
	return string(data)
}

func (p *replayPage) submit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errPageClosed
	}
	if p.pending == "" {
		p.document = replayNoResultsDocument
	} else {
		p.document = p.pending
	}
	return nil
}

func isSubmitControl(sel *goquery.Selection) bool {
	if sel.Is("button[type='submit'], input[type='submit']") {
		return true
	}
	id, _ := sel.Attr("id")
	return id == "nodeW20"
}

type replayControl struct {
	page    *replayPage
	text    string
	submits bool
}

var _ Control = (*replayControl)(nil)

func (c *replayControl) Clickable(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	return !c.page.closed
}

func (c *replayControl) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.submits {
		return c.page.submit()
	}
	return nil
}

func (c *replayControl) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.text, nil
}
