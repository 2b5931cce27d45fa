package attribution

import (
	"net/url"
	"strings"
)

// keyParamByBaseDomain maps known search engine base domains to the query parameter
// that carries the search term. Subdomains roll up via suffix matching.
var keyParamByBaseDomain = map[string]string{
	"yahoo.com":  "p",
	"google.com": "q",
	"bing.com":   "q",
	"msn.com":    "q",
}

// commonKeyCandidates are tried in order when the base-domain mapping misses.
var commonKeyCandidates = []string{"q", "p"}

// searchDomainHints flag hosts that are likely search engines but not in the base
// domain table (regional TLDs like google.ca).
var searchDomainHints = []string{"google.", "bing.", "yahoo.", "msn."}

// Classifier decides whether a referrer URL is an external search engine hit and, if
// so, extracts the engine domain and normalized keyword. It holds no mutable state, so
// one instance can be shared freely.
type Classifier struct {
	internalHosts []string // lowercased, www-stripped
}

// NewClassifier returns a classifier that treats the given hosts (and their
// subdomains) as internal traffic, never attributable to search.
func NewClassifier(internalHosts []string) *Classifier {
	norm := make([]string, 0, len(internalHosts))
	for _, h := range internalHosts {
		h = stripWWW(strings.ToLower(strings.TrimSpace(h)))
		if h != "" {
			norm = append(norm, h)
		}
	}
	return &Classifier{internalHosts: norm}
}

// Classify returns the attribution for an external search referrer, or ok=false when
// the referrer is not attributable. Malformed URLs are swallowed, never errors: a
// referrer that fails any gate simply means "not a search hit".
func (c *Classifier) Classify(referrer string) (KeywordAttribution, bool) {
	if referrer == "" || referrer == "-" {
		return KeywordAttribution{}, false
	}

	parsed, err := url.Parse(referrer)
	if err != nil {
		return KeywordAttribution{}, false
	}

	host := strings.TrimSpace(strings.ToLower(parsed.Host))
	if host == "" {
		return KeywordAttribution{}, false
	}
	host = stripWWW(host)

	if c.isInternalHost(host) {
		return KeywordAttribution{}, false
	}
	if !looksLikeSearchEngine(host) {
		return KeywordAttribution{}, false
	}

	query := parseQuery(parsed.RawQuery)
	if len(query) == 0 {
		return KeywordAttribution{}, false
	}

	keyName := pickKeywordParam(host, query)
	if keyName == "" {
		return KeywordAttribution{}, false
	}

	vals := query[keyName]
	if len(vals) == 0 {
		return KeywordAttribution{}, false
	}

	keyword := normalizeKeyword(vals[0])
	if keyword == "" {
		return KeywordAttribution{}, false
	}

	engineDomain := host
	if base := baseDomainMatch(host); base != "" {
		engineDomain = base
	}

	return KeywordAttribution{EngineDomain: engineDomain, Keyword: keyword}, true
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

func (c *Classifier) isInternalHost(host string) bool {
	for _, internal := range c.internalHosts {
		if host == internal || strings.HasSuffix(host, "."+internal) {
			return true
		}
	}
	return false
}

// looksLikeSearchEngine prefers a proper base domain match; substring hints catch
// regional variants that the table misses.
func looksLikeSearchEngine(host string) bool {
	if baseDomainMatch(host) != "" {
		return true
	}
	for _, hint := range searchDomainHints {
		if strings.Contains(host, hint) {
			return true
		}
	}
	return false
}

func baseDomainMatch(host string) string {
	for base := range keyParamByBaseDomain {
		if host == base || strings.HasSuffix(host, "."+base) {
			return base
		}
	}
	return ""
}

// pickKeywordParam chooses the query parameter carrying the search term: the mapped
// param for a known base domain when present, then the common candidates in order.
func pickKeywordParam(host string, query url.Values) string {
	if base := baseDomainMatch(host); base != "" {
		if expected := keyParamByBaseDomain[base]; expected != "" {
			if _, ok := query[expected]; ok {
				return expected
			}
		}
	}
	for _, candidate := range commonKeyCandidates {
		if _, ok := query[candidate]; ok {
			return candidate
		}
	}
	return ""
}

// parseQuery splits a raw query into a multi-valued map. Pairs are separated by "&"
// only, so a semicolon is an ordinary character inside a value, and a pair with an
// invalid percent escape is kept rather than poisoning the whole query. url.ParseQuery
// does neither: it rejects semicolons outright and drops malformed pairs.
func parseQuery(rawQuery string) url.Values {
	query := url.Values{}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, val, _ := strings.Cut(pair, "=")
		query.Add(unescapePlus(key), unescapePlus(val))
	}
	return query
}

// unescapePlus decodes plus signs to spaces and then percent escapes, keeping the
// plus-decoded text as-is when an escape is invalid.
func unescapePlus(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	return s
}

// normalizeKeyword applies a second unescape pass (so double-encoded keywords
// normalize identically), collapses whitespace runs, and lowercases, so "Ipod+Nano"
// and "ipod%20nano" group together.
func normalizeKeyword(raw string) string {
	txt := strings.TrimSpace(unescapePlus(raw))
	if txt == "" {
		return ""
	}
	return strings.ToLower(strings.Join(strings.Fields(txt), " "))
}
