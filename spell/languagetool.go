package spell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrProviderUnavailable marks network failures and non-success responses
// from the checker endpoint.
var ErrProviderUnavailable = errors.New("spell: provider unavailable")

const (
	// DefaultEndpoint is the public LanguageTool check endpoint.
	DefaultEndpoint = "https://api.languagetool.org/v2/check"

	// DefaultLanguage is sent when no language is configured.
	DefaultLanguage = "en-US"

	typosCategoryID = "TYPOS"
)

// LanguageTool checks text against a LanguageTool-protocol endpoint.
// Only typo findings are reported; grammar and style categories are
// filtered out.
type LanguageTool struct {
	Endpoint string
	Language string

	// Client defaults to http.DefaultClient.
	Client *http.Client
}

type ltResponse struct {
	Matches []ltMatch `json:"matches"`
}

type ltMatch struct {
	Offset       int    `json:"offset"`
	Length       int    `json:"length"`
	Message      string `json:"message"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
	Rule struct {
		Category struct {
			ID string `json:"id"`
		} `json:"category"`
	} `json:"rule"`
	Context struct {
		Text string `json:"text"`
	} `json:"context"`
}

// Check posts text to the endpoint as a form-encoded check request and
// maps the typo matches to ErrorSpans with rune offsets into text.
// Malformed matches are dropped; they never fail the batch.
func (lt *LanguageTool) Check(ctx context.Context, text string) ([]ErrorSpan, error) {
	endpoint := lt.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	language := lt.Language
	if language == "" {
		language = DefaultLanguage
	}
	client := lt.Client
	if client == nil {
		client = http.DefaultClient
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", language)
	form.Set("enabledOnly", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var parsed ltResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return spansFromMatches(text, parsed.Matches), nil
}

// spansFromMatches keeps typo-category matches whose range fits inside
// text, truncating replacements to MaxSuggestions in their original order.
func spansFromMatches(text string, matches []ltMatch) []ErrorSpan {
	runes := []rune(text)
	var out []ErrorSpan
	for _, m := range matches {
		if m.Rule.Category.ID != typosCategoryID {
			continue
		}
		if m.Offset < 0 || m.Length <= 0 || m.Offset+m.Length > len(runes) {
			continue
		}
		es := ErrorSpan{
			Offset:  m.Offset,
			Length:  m.Length,
			Word:    string(runes[m.Offset : m.Offset+m.Length]),
			Message: m.Message,
		}
		for _, r := range m.Replacements {
			if r.Value == "" {
				continue
			}
			es.Suggestions = append(es.Suggestions, r.Value)
			if len(es.Suggestions) == MaxSuggestions {
				break
			}
		}
		out = append(out, es)
	}
	return out
}
