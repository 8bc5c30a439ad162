package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/aleister1102/conndir/internal/urlhandler"
	"github.com/rs/zerolog"
)

// Labels rendered by the page chrome, never content
var headingChrome = map[string]bool{
	"Details":   true,
	"Tools":     true,
	"Back":      true,
	"More info": true,
}

var toolsReserved = map[string]bool{
	"Tools":         true,
	"Details":       true,
	"Version":       true,
	"Author":        true,
	"Back":          true,
	"Connect":       true,
	"Developed by":  true,
	"More info":     true,
	"Connector URL": true,
}

const disclaimerPrefix = "Only use connectors"

var (
	authorPattern       = regexp.MustCompile(`Author\s*\n\s*(.+?)(?:\n|$)`)
	versionPattern      = regexp.MustCompile(`Version\s*\n\s*([\d.]+)`)
	connectorURLPattern = regexp.MustCompile(`Connector URL\s*\n\s*(https?://\S+)`)
	toolNamePattern     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.\-:]*$`)
	digitsPattern       = regexp.MustCompile(`^[0-9]+$`)
)

// TextExtractor parses the visible page text line by line, anchored on
// the literal labels the directory renders. Links are resolved from the DOM.
type TextExtractor struct {
	cfg              config.ExtractorConfig
	developerPattern *regexp.Regexp
	logger           zerolog.Logger
}

// NewTextExtractor creates a text strategy using cfg.Marker as the developer label
func NewTextExtractor(cfg config.ExtractorConfig, logger zerolog.Logger) *TextExtractor {
	return &TextExtractor{
		cfg:              cfg,
		developerPattern: regexp.MustCompile(regexp.QuoteMeta(cfg.Marker) + `\s*\n?\s*(.+?)(?:\n|$)`),
		logger:           logger.With().Str("component", "TextExtractor").Logger(),
	}
}

func (te *TextExtractor) Name() string {
	return "text"
}

func (te *TextExtractor) Extract(snap Snapshot) models.DetailFields {
	doc := parseDocument(snap.HTML)
	body := snap.Text

	var fields models.DetailFields
	fields.Name = headingName(doc)
	fields.Tagline, fields.Description = te.taglineAndDescription(body, fields.Name)

	if name := firstGroup(te.developerPattern, body); name != "" {
		fields.Developer = &models.Party{Name: name, URL: externalLinkFor(doc, name, snap.URL)}
	}
	if name := firstGroup(authorPattern, body); name != "" {
		fields.Author = &models.Party{Name: name, URL: externalLinkFor(doc, name, snap.URL)}
	}

	fields.Tools = toolsSection(body)
	fields.Version = firstGroup(versionPattern, body)
	fields.ConnectorURL = firstGroup(connectorURLPattern, body)
	fields.MoreInfo = moreInfoLinks(doc, te.cfg.MoreInfoLabels)

	te.logger.Debug().
		Str("url", snap.URL).
		Str("name", fields.Name).
		Int("tools", len(fields.Tools)).
		Msg("Parsed detail text")
	return fields
}

// headingName returns the first h1/h2 that is not page chrome
func headingName(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	var name string
	doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" || headingChrome[text] {
			return true
		}
		name = text
		return false
	})
	return name
}

// taglineAndDescription reads the lines between the name and the marker.
// Two or more lines are tagline then description; a single line is a
// tagline when short and a description otherwise.
func (te *TextExtractor) taglineAndDescription(body, name string) (string, string) {
	if name == "" {
		return "", ""
	}
	markerIdx := strings.Index(body, te.cfg.Marker)
	if markerIdx <= 0 {
		return "", ""
	}
	nameIdx := strings.Index(body, name)
	if nameIdx < 0 || nameIdx+len(name) > markerIdx {
		return "", ""
	}

	var lines []string
	for _, line := range strings.Split(body[nameIdx+len(name):markerIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "Connect" || strings.HasPrefix(line, disclaimerPrefix) {
			continue
		}
		if utf8.RuneCountInString(line) < te.cfg.MinLineLen {
			continue
		}
		lines = append(lines, line)
	}

	switch {
	case len(lines) >= 2:
		return lines[0], lines[1]
	case len(lines) == 1 && utf8.RuneCountInString(lines[0]) < te.cfg.TaglineMaxLen:
		return lines[0], ""
	case len(lines) == 1:
		return "", lines[0]
	}
	return "", ""
}

// toolsSection returns the tool names listed between the Tools and Details
// headers, or nil when the section is absent.
func toolsSection(body string) []string {
	start := strings.Index(body, "\nTools")
	if start < 0 {
		start = strings.Index(body, "Tools\n")
	}
	end := strings.Index(body, "\nDetails")
	if end < 0 {
		end = strings.Index(body, "Details\n")
	}
	if start < 0 || end <= start {
		return nil
	}

	tools := []string{}
	for _, line := range strings.Split(body[start:end], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || toolsReserved[line] || digitsPattern.MatchString(line) {
			continue
		}
		if toolNamePattern.MatchString(line) {
			tools = append(tools, line)
		}
	}
	return tools
}

// externalLinkFor finds an absolute link labelled exactly name that leaves
// the directory's own site.
func externalLinkFor(doc *goquery.Document, name, pageURL string) string {
	if doc == nil {
		return ""
	}
	var href string
	doc.Find("a[href^='http']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != name {
			return true
		}
		candidate, _ := s.Attr("href")
		if candidate == "" || urlhandler.IsSameSite(candidate, pageURL) {
			return true
		}
		href = candidate
		return false
	})
	return href
}

// moreInfoLinks maps each label to the first link mentioning it, keyed
// like "privacy_policy". Only absolute links are kept.
func moreInfoLinks(doc *goquery.Document, labels []string) map[string]string {
	if doc == nil {
		return nil
	}
	links := map[string]string{}
	anchors := doc.Find("a")
	for _, label := range labels {
		needle := strings.ToLower(label)
		match := anchors.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(strings.ToLower(s.Text()), needle)
		}).First()
		if match.Length() == 0 {
			continue
		}
		if href, _ := match.Attr("href"); urlhandler.IsAbsoluteHTTP(href) {
			links[labelKey(label)] = href
		}
	}
	if len(links) == 0 {
		return nil
	}
	return links
}

func labelKey(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

func firstGroup(re *regexp.Regexp, body string) string {
	m := re.FindStringSubmatch(body)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
