package settings

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// headTags are the non-script elements kept from custom head code
var headTags = map[string]bool{
	"style":    true,
	"meta":     true,
	"link":     true,
	"noscript": true,
	"base":     true,
	"title":    true,
}

// HeadFragments is markup to inject into every page
type HeadFragments struct {
	// Head is appended to <head>
	Head string `json:"head"`
	// BodyPrefix is inserted right after <body>
	BodyPrefix string `json:"bodyPrefix"`
}

const gtmLoader = `<script>(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':
new Date().getTime(),event:'gtm.js'});var f=d.getElementsByTagName(s)[0],
j=d.createElement(s),dl=l!='dataLayer'?'&l='+l:'';j.async=true;j.src=
'https://www.googletagmanager.com/gtm.js?id='+i+dl;f.parentNode.insertBefore(j,f);
})(window,document,'script','dataLayer','%s');</script>`

const gtmNoScript = `<noscript><iframe src="https://www.googletagmanager.com/ns.html?id=%s" height="0" width="0" style="display:none;visibility:hidden"></iframe></noscript>`

// SanitizeHeadCode keeps every script and the top-level head elements of code.
// Anything else (body markup, text) is dropped.
func SanitizeHeadCode(code string) (string, error) {
	scripts, others, err := splitHeadCode(code)
	if err != nil {
		return "", err
	}
	return strings.Join(append(scripts, others...), "\n"), nil
}

// RenderHead builds the markup for a site's tracking and custom head code.
// GTM comes first, then custom scripts, then the remaining custom elements.
func RenderHead(site Site) (HeadFragments, error) {
	var head []string
	var frag HeadFragments

	if site.GTMID != "" {
		id := html.EscapeString(site.GTMID)
		head = append(head, fmt.Sprintf(gtmLoader, id))
		frag.BodyPrefix = fmt.Sprintf(gtmNoScript, id)
	}

	if site.CustomHeadCode != "" {
		scripts, others, err := splitHeadCode(site.CustomHeadCode)
		if err != nil {
			return HeadFragments{}, err
		}
		head = append(head, scripts...)
		head = append(head, others...)
	}

	frag.Head = strings.Join(head, "\n")
	return frag, nil
}

// splitHeadCode parses code as a document and returns every script plus the
// allowed top-level elements. The parser hoists leading head elements into
// <head>, so both sections are scanned.
func splitHeadCode(code string) (scripts, others []string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(code))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse head code: %w", err)
	}

	var renderErr error
	render := func(s *goquery.Selection) string {
		h, err := goquery.OuterHtml(s)
		if err != nil && renderErr == nil {
			renderErr = err
		}
		return h
	}

	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		scripts = append(scripts, render(s))
	})
	doc.Find("head, body").Children().Each(func(i int, s *goquery.Selection) {
		if headTags[goquery.NodeName(s)] {
			others = append(others, render(s))
		}
	})

	if renderErr != nil {
		return nil, nil, fmt.Errorf("failed to render head code: %w", renderErr)
	}
	return scripts, others, nil
}
