// Package extract normalizes heterogeneous provider payloads into a
// uniform (answer, sources) pair for downstream scoring and analysis.
package extract

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/lamim/answer-api-bench/internal/providers"
)

// Source is one normalized source citation. URL is always populated
// when the provider supplied one; Raw keeps the structured form for
// quality scoring when the provider returned an object.
type Source struct {
	URL   string                 `json:"url"`
	Title string                 `json:"title,omitempty"`
	Raw   map[string]interface{} `json:"-"`
}

// fieldPreference maps a provider identifier to the ordered list of
// payload keys its answer text may live under. Linkup titles its answer
// field "content"; everyone else leads with "answer". Unknown providers
// fall back to answer-then-content.
var fieldPreference = map[string][]string{
	providers.NameLinkupStandard: {"content", "answer"},
	providers.NameLinkupDeep:     {"content", "answer"},
	providers.NamePerplexity:     {"answer", "content"},
	providers.NameExa:            {"answer", "content"},
	providers.NameYou:            {"answer", "content"},
	providers.NameTavily:         {"answer", "content"},
	providers.NameValyu:          {"answer", "content"},
}

var defaultPreference = []string{"answer", "content"}

// Answer extracts the answer text and normalized sources from a
// provider payload. A nil payload yields empty defaults; missing or
// mistyped fields degrade to empty values rather than failing.
func Answer(apiName string, data map[string]interface{}) (string, []Source) {
	if data == nil {
		return "", nil
	}

	answer := ""
	prefs, ok := fieldPreference[apiName]
	if !ok {
		prefs = defaultPreference
	}
	for _, field := range prefs {
		if v, ok := data[field].(string); ok && v != "" {
			answer = v
			break
		}
	}

	answer = normalizeAnswer(answer)

	return answer, Sources(data["sources"])
}

// Sources normalizes a raw source list into Source values. Entries may
// be bare URL strings or objects carrying a "url" field; anything else
// is dropped. Order is preserved and duplicates are kept.
func Sources(raw interface{}) []Source {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	sources := make([]Source, 0, len(list))
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			sources = append(sources, Source{URL: v})
		case map[string]interface{}:
			s := Source{Raw: v}
			s.URL, _ = v["url"].(string)
			s.Title, _ = v["title"].(string)
			sources = append(sources, s)
		}
	}
	return sources
}

// URLs flattens sources to their URL strings for counting and CSV output.
func URLs(sources []Source) []string {
	urls := make([]string, 0, len(sources))
	for _, s := range sources {
		urls = append(urls, s.URL)
	}
	return urls
}

// normalizeAnswer converts HTML answers to markdown and collapses
// whitespace runs. Some providers return HTML fragments in their answer
// field; scoring heuristics expect plain text.
func normalizeAnswer(answer string) string {
	if looksLikeHTML(answer) {
		converted, err := md.ConvertString(answer)
		if err == nil {
			answer = converted
		}
	}
	return strings.Join(strings.Fields(answer), " ")
}

// looksLikeHTML is a cheap tag check, not a parser. False negatives
// just skip the markdown conversion.
func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	for _, tag := range []string{"<p>", "<div", "<br", "<ul>", "<li>", "<a href", "<span"} {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}
