// Package html extracts forms and text from the OAuth server's HTML pages.
package html

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"ocl/internal/domain"
)

var (
	formSelector    = cascadia.MustCompile("form")
	controlSelector = cascadia.MustCompile("input, select, textarea")
	optionSelector  = cascadia.MustCompile("option")
)

// Scraper implements domain.HTMLScraper with golang.org/x/net/html and
// cascadia selectors.
type Scraper struct{}

// NewScraper creates a new HTML scraper.
func NewScraper() *Scraper {
	return &Scraper{}
}

// SerializeForm collects the successful controls of every form on the page in
// document order, the way a browser would encode them. Action and method are
// taken from the first form.
func (s *Scraper) SerializeForm(body []byte) (domain.Form, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return domain.Form{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	form := domain.Form{Fields: url.Values{}}
	forms := cascadia.QueryAll(doc, formSelector)
	if len(forms) == 0 {
		return form, fmt.Errorf("form: %w", domain.ErrElementNotFound)
	}

	form.Action = attr(forms[0], "action")
	form.Method = strings.ToUpper(attr(forms[0], "method"))
	if form.Method == "" {
		form.Method = "GET"
	}

	for _, f := range forms {
		for _, control := range cascadia.QueryAll(f, controlSelector) {
			serializeControl(control, form.Fields)
		}
	}
	return form, nil
}

// ExtractText returns the concatenated text of the first element matching
// the CSS selector.
func (s *Scraper) ExtractText(body []byte, selector string) (string, error) {
	if strings.TrimSpace(selector) == "" {
		return "", errors.New("empty selector")
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return "", fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	node := cascadia.Query(doc, sel)
	if node == nil {
		return "", fmt.Errorf("%s: %w", selector, domain.ErrElementNotFound)
	}
	return text(node), nil
}

func serializeControl(n *html.Node, fields url.Values) {
	name := attr(n, "name")
	if name == "" || hasAttr(n, "disabled") {
		return
	}

	switch n.DataAtom {
	case atom.Input:
		switch strings.ToLower(attr(n, "type")) {
		case "submit", "button", "image", "reset", "file":
			return
		case "checkbox", "radio":
			if !hasAttr(n, "checked") {
				return
			}
			value := attr(n, "value")
			if !hasAttr(n, "value") {
				value = "on"
			}
			fields.Add(name, value)
		default:
			fields.Add(name, attr(n, "value"))
		}
	case atom.Textarea:
		fields.Add(name, text(n))
	case atom.Select:
		options := cascadia.QueryAll(n, optionSelector)
		selected := 0
		for _, o := range options {
			if hasAttr(o, "selected") && !hasAttr(o, "disabled") {
				fields.Add(name, optionValue(o))
				selected++
			}
		}
		if selected == 0 && !hasAttr(n, "multiple") && len(options) > 0 {
			fields.Add(name, optionValue(options[0]))
		}
	}
}

func optionValue(o *html.Node) string {
	if hasAttr(o, "value") {
		return attr(o, "value")
	}
	return strings.TrimSpace(text(o))
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
