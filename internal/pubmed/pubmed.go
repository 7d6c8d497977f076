// Package pubmed is a client for the NCBI E-utilities (esearch, esummary, efetch).
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/michela/coach/internal/metrics"
)

// DefaultURL is the E-utilities base URL.
const DefaultURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// SortNewest orders results by publication date, newest first.
const SortNewest = "pub_date"

// ArticleURL returns the public page of an article.
func ArticleURL(id string) string { return "https://pubmed.ncbi.nlm.nih.gov/" + id + "/" }

// Metadata is the bibliographic summary of one article.
type Metadata struct {
	Title   string
	Authors []string
	PubDate string
}

// Abstract is the title and abstract text of one article.
type Abstract struct {
	Title    string
	Abstract string
}

// Searcher is the research search collaborator.
type Searcher interface {
	Search(ctx context.Context, term string, offset, pageSize int, sort string) (ids []string, total int, err error)
	FetchMetadata(ctx context.Context, ids []string) (map[string]Metadata, error)
	FetchAbstract(ctx context.Context, id string) (Abstract, error)
}

// ErrNoArticle is returned by FetchAbstract when the id matches nothing.
var ErrNoArticle = errors.New("no article")

// Client implements Searcher over HTTP.
type Client struct {
	client *resty.Client
}

// New creates a Client. apiKey is optional and raises the NCBI rate limit.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetQueryParam("db", "pubmed")
	if apiKey != "" {
		c.SetQueryParam("api_key", apiKey)
	}
	return &Client{client: c}
}

type esearchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search returns one page of matching ids and the total match count.
func (c *Client) Search(ctx context.Context, term string, offset, pageSize int, sort string) (ids []string, total int, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("pubmed", start, err) }()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"term":     term,
			"retmax":   strconv.Itoa(pageSize),
			"retstart": strconv.Itoa(offset),
			"sort":     sort,
			"retmode":  "json",
		}).
		Get("/esearch.fcgi")
	if err != nil {
		return nil, 0, fmt.Errorf("esearch request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, 0, fmt.Errorf("esearch status %d", resp.StatusCode())
	}
	var out esearchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, 0, fmt.Errorf("decode esearch: %w", err)
	}
	if out.Result.Count != "" {
		total, err = strconv.Atoi(out.Result.Count)
		if err != nil {
			return nil, 0, fmt.Errorf("esearch count %q: %w", out.Result.Count, err)
		}
	}
	ids = out.Result.IDList
	if ids == nil {
		ids = []string{}
	}
	return ids, total, nil
}

type esummaryDoc struct {
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// FetchMetadata loads metadata for all ids with a single esummary call.
// Ids unknown to PubMed are absent from the result.
func (c *Client) FetchMetadata(ctx context.Context, ids []string) (out map[string]Metadata, err error) {
	out = make(map[string]Metadata, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	start := time.Now()
	defer func() { metrics.ObserveUpstream("pubmed", start, err) }()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":      strings.Join(ids, ","),
			"retmode": "json",
		}).
		Get("/esummary.fcgi")
	if err != nil {
		return nil, fmt.Errorf("esummary request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("esummary status %d", resp.StatusCode())
	}
	var body struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode esummary: %w", err)
	}
	for _, id := range ids {
		raw, ok := body.Result[id]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode esummary %s: %w", id, err)
		}
		md := Metadata{Title: strings.TrimSuffix(doc.Title, "."), PubDate: doc.PubDate}
		for i, a := range doc.Authors {
			if i == 3 {
				break
			}
			md.Authors = append(md.Authors, a.Name)
		}
		out[id] = md
	}
	return out, nil
}

type efetchSet struct {
	Articles []struct {
		Title    inlineText        `xml:"MedlineCitation>Article>ArticleTitle"`
		Sections []abstractSection `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	} `xml:"PubmedArticle"`
}

// inlineText is the character data of an element including text inside inline
// markup such as <i>, <sup> and <sub>.
type inlineText string

func (t *inlineText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case xml.CharData:
			sb.Write(v)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				*t = inlineText(sb.String())
				return nil
			}
			depth--
		}
	}
}

type abstractSection struct {
	Label string
	Text  inlineText
}

func (s *abstractSection) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "Label" {
			s.Label = a.Value
		}
	}
	return s.Text.UnmarshalXML(d, start)
}

// FetchAbstract loads the title and abstract of one article.
func (c *Client) FetchAbstract(ctx context.Context, id string) (out Abstract, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("pubmed", start, err) }()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":      id,
			"retmode": "xml",
		}).
		Get("/efetch.fcgi")
	if err != nil {
		return Abstract{}, fmt.Errorf("efetch request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Abstract{}, fmt.Errorf("efetch status %d", resp.StatusCode())
	}
	var set efetchSet
	if err := xml.Unmarshal(resp.Body(), &set); err != nil {
		return Abstract{}, fmt.Errorf("decode efetch: %w", err)
	}
	if len(set.Articles) == 0 {
		return Abstract{}, fmt.Errorf("%w %s", ErrNoArticle, id)
	}
	a := set.Articles[0]
	parts := make([]string, 0, len(a.Sections))
	for _, s := range a.Sections {
		text := strings.TrimSpace(string(s.Text))
		if text == "" {
			continue
		}
		if s.Label != "" {
			text = s.Label + ": " + text
		}
		parts = append(parts, text)
	}
	out.Title = strings.TrimSpace(string(a.Title))
	if out.Title == "" {
		out.Title = "No title"
	}
	out.Abstract = strings.Join(parts, "\n")
	if out.Abstract == "" {
		out.Abstract = "No abstract available"
	}
	return out, nil
}

var yearRx = regexp.MustCompile(`20\d{2}`)

// NormalizeDate converts an esummary pubdate ("2024 Mar 15", "2024 Mar", "2024")
// into YYYY-MM-DD. Unparseable dates fall back to January 1st of the first year found.
func NormalizeDate(pubdate string) string {
	for _, layout := range []string{"2006 Jan 2", "2006 Jan", "2006"} {
		if t, err := time.Parse(layout, strings.TrimSpace(pubdate)); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if y := yearRx.FindString(pubdate); y != "" {
		return y + "-01-01"
	}
	return ""
}
