// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render produces the HTML review page for one reviewer: the
// reviewer's items grouped by day, short links replaced with anchors, and
// a few embedded "fact" cards with the most reposted items.
package render

import (
	"fmt"
	"html/template"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/spug/newsletter/internal/curate"
	"github.com/spug/newsletter/internal/group"
	"github.com/spug/newsletter/pkg/types"
)

// DateFormat is used for day headings and embedded post dates.
const DateFormat = "Monday, Jan 2"

// Day indexes after which the fact cards are placed.
const (
	topFactDay      = 2
	runnerUpFactDay = 5
)

var greetings = []string{
	"You are about to review <strong>%d</strong> tweets for <strong>%d</strong> days.",
	"You've got <strong>%d</strong> tweets for <strong>%d</strong> days.",
	"Here's some <strong>%d</strong> tweets for <strong>%d</strong> days.",
}

var highlightColors = []string{"#ff00ff", "#daa520", "#8a2be2", "#7fff00", "#ff8c00", "#ff69b4"}

var farewells = []string{"The end!", "That's it for today!", "See you next week!", "All done!"}

// Emoticon is the footer art of a review page.
type Emoticon struct {
	Face    string
	Caption string
}

var emoticons = []Emoticon{
	{"(='X'=)", "This cat is happy with your progress."},
	{"^(;,;)^", "Cthulhu is pleased!"},
	{"(^_^)b", "Well done!"},
	{"¯_(ツ)_/¯", "Wow, that was quick."},
	{"(;-;)", "Sorry, no more tweets left for you."},
}

// Renderer renders reviewer pages. Its random source picks the greeting,
// farewell, emoticon and highlight color; seed it for stable output.
type Renderer struct {
	rnd    *rand.Rand
	policy *bluemonday.Policy
}

// New returns a Renderer whose decorations are drawn from a PCG source
// seeded with seed.
func New(seed uint64) *Renderer {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &Renderer{
		rnd:    rand.New(rand.NewPCG(seed, seed)),
		policy: p,
	}
}

// FileName returns the page file name for reviewer.
func FileName(reviewer string) string {
	return fmt.Sprintf("tweets for %s.html", reviewer)
}

type page struct {
	Greeting  template.HTML
	Highlight template.CSS
	Days      []dayView
	Farewell  string
	Emoticon  Emoticon
}

type dayView struct {
	Heading string
	Items   []template.HTML
	Fact    *factView
}

type factView struct {
	Title      template.HTML
	ShowImages bool
	Posts      []embedView
}

type embedView struct {
	Text       string
	Name       string
	ScreenName string
	URL        string
	Date       string
}

// Render writes the review page for items to w.
func (r *Renderer) Render(w io.Writer, items []types.Item) error {
	days := group.ByDay(items)
	ranked := curate.Rank().Apply(items)

	p := page{
		Greeting:  template.HTML(fmt.Sprintf(pick(r.rnd, greetings), len(items), len(days))),
		Highlight: template.CSS(pick(r.rnd, highlightColors)),
		Farewell:  pick(r.rnd, farewells),
		Emoticon:  pick(r.rnd, emoticons),
	}
	for i, d := range days {
		view := dayView{Heading: d.Day.Format(DateFormat)}
		for _, it := range d.Items {
			view.Items = append(view.Items, r.Linkify(it))
		}
		switch i {
		case topFactDay:
			view.Fact = &factView{
				Title:      "Most <strong>retweeted</strong> of the week:",
				ShowImages: true,
				Posts:      embeds(window(ranked, 0, 1)),
			}
		case runnerUpFactDay:
			view.Fact = &factView{
				Title: "<strong>2<sup>nd</sup></strong>, <strong>3<sup>rd</sup></strong> and " +
					"<strong>4<sup>th</sup></strong> places are:",
				Posts: embeds(window(ranked, 1, 4)),
			}
		}
		p.Days = append(p.Days, view)
	}

	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// Linkify returns the item text as sanitized HTML with every short link
// replaced by an anchor to its expanded target.
func (r *Renderer) Linkify(it types.Item) template.HTML {
	text := template.HTMLEscapeString(it.Text)
	for _, u := range it.URLs {
		if u.Short == "" {
			continue
		}
		anchor := fmt.Sprintf(`<a href="%s">%s</a>`,
			template.HTMLEscapeString(u.Expanded), template.HTMLEscapeString(u.Display))
		text = strings.ReplaceAll(text, template.HTMLEscapeString(u.Short), anchor)
	}
	return template.HTML(r.policy.Sanitize(text))
}

// WriteReviewers renders one page per bucket into dir and returns the
// written paths in bucket order.
func (r *Renderer) WriteReviewers(dir string, buckets []group.ReviewerBucket) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	paths := make([]string, 0, len(buckets))
	for _, b := range buckets {
		path := filepath.Join(dir, FileName(b.Reviewer))
		if err := r.writeFile(path, b.Items); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *Renderer) writeFile(path string, items []types.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := r.Render(f, items); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func embeds(items []types.Item) []embedView {
	out := make([]embedView, 0, len(items))
	for _, it := range items {
		out = append(out, embedView{
			Text:       it.Text,
			Name:       it.Author.Name,
			ScreenName: it.Author.ScreenName,
			URL:        fmt.Sprintf("https://twitter.com/%s/status/%s", it.Author.ScreenName, it.ID),
			Date:       it.CreatedAt.UTC().Format(DateFormat),
		})
	}
	return out
}

func window(items []types.Item, from, to int) []types.Item {
	from = min(from, len(items))
	to = min(to, len(items))
	return items[from:to]
}

func pick[T any](rnd *rand.Rand, list []T) T {
	return list[rnd.IntN(len(list))]
}

var pageTmpl = template.Must(template.New("reviewer").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="X-UA-Compatible" content="IE=edge">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
.list { line-height: 1.4; padding-left: 35px; }
.list-item { font-weight: normal; font-family: "Roboto", sans-serif; font-size: 16px; padding-bottom: 10px; }
.list-item a { color: #2b7bb9; text-decoration: none; }
h1 { color: #555; font-size: 3em; font-family: "Roboto Slab", Georgia, serif; padding-left: 5px; }
h2 { font-size: 2em; font-family: "Roboto Slab", Georgia, serif; padding-left: 5px; color: #666; }
h3 { margin-bottom: 0; font-family: "Roboto", sans-serif; font-size: 30px; }
strong { color: {{.Highlight}}; }
.footer { width: 100%; text-align: center; }
.emoticon { font-size: 150px; font-family: monospace; color: #666; letter-spacing: -15px; }
.footer-text { font-size: 40px; font-family: "Roboto Slab", Georgia, serif; color: #666; }
.fact { width: 50%; margin: auto; padding: 50px; }
.end-text { padding-bottom: 80px; color: {{.Highlight}}; }
</style>
<link href="https://fonts.googleapis.com/css?family=Roboto|Roboto+Slab" rel="stylesheet">
<script async src="https://platform.twitter.com/widgets.js" charset="utf-8"></script>
</head>
<body>
<div>
<h1>{{.Greeting}}</h1>
{{range .Days}}<h2>{{.Heading}}</h2>
<ol class="list">
{{range .Items}}<li class="list-item">{{.}}</li>
{{end}}</ol>
{{with .Fact}}<div class="fact">
<h3>{{.Title}}</h3>
{{$cards := .ShowImages}}{{range .Posts}}<blockquote class="twitter-tweet" data-cards="{{if not $cards}}hidden{{end}}" data-lang="en">
<p lang="en" dir="ltr">{{.Text}}</p>
&mdash; {{.Name}} (@{{.ScreenName}}) <a href="{{.URL}}">{{.Date}}</a>
</blockquote>
{{end}}</div>
{{end}}{{end}}<h2 class="end-text">{{.Farewell}}</h2>
<footer class="footer">
<div class="emoticon">{{.Emoticon.Face}}</div>
<div class="footer-text">{{.Emoticon.Caption}}</div>
</footer>
</div>
</body>
</html>
`))
