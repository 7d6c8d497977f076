package pubmed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const esummaryBody = `{"result":{"uids":["111","222"],
 "111":{"uid":"111","title":"Protein timing and hypertrophy.","pubdate":"2024 Mar 15",
        "authors":[{"name":"Smith J"},{"name":"Doe A"},{"name":"Roe B"},{"name":"Poe C"}]},
 "222":{"uid":"222","title":"Sleep and strength","pubdate":"2025","authors":[]}}}`

const efetchBody = `<?xml version="1.0"?>
<PubmedArticleSet>
 <PubmedArticle>
  <MedlineCitation>
   <Article>
    <ArticleTitle>Protein timing and hypertrophy.</ArticleTitle>
    <Abstract>
     <AbstractText Label="BACKGROUND">Protein matters.</AbstractText>
     <AbstractText Label="RESULTS">1.6 g/kg was enough.</AbstractText>
    </Abstract>
   </Article>
  </MedlineCitation>
 </PubmedArticle>
</PubmedArticleSet>`

const efetchInlineBody = `<PubmedArticleSet>
 <PubmedArticle>
  <MedlineCitation>
   <Article>
    <ArticleTitle>Effects of <i>creatine</i> on VO<sub>2</sub>max</ArticleTitle>
    <Abstract>
     <AbstractText>Trained adults (n=<i>20</i>) gained 1.2 kg m<sup>-2</sup> of lean mass.</AbstractText>
    </Abstract>
   </Article>
  </MedlineCitation>
 </PubmedArticle>
</PubmedArticleSet>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("db") != "pubmed" {
			t.Errorf("missing db param: %s", r.URL.String())
		}
		switch r.URL.Path {
		case "/esearch.fcgi":
			assert.Equal(t, "10", q.Get("retmax"))
			assert.Equal(t, "20", q.Get("retstart"))
			assert.Equal(t, SortNewest, q.Get("sort"))
			assert.Equal(t, "json", q.Get("retmode"))
			_, _ = w.Write([]byte(`{"esearchresult":{"count":"42","idlist":["111","222"]}}`))
		case "/esummary.fcgi":
			assert.Equal(t, "111,222,999", q.Get("id"))
			_, _ = w.Write([]byte(esummaryBody))
		case "/efetch.fcgi":
			if q.Get("id") == "333" {
				_, _ = w.Write([]byte(efetchInlineBody))
				return
			}
			if q.Get("id") == "404" {
				_, _ = w.Write([]byte(`<PubmedArticleSet></PubmedArticleSet>`))
				return
			}
			_, _ = w.Write([]byte(efetchBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClientSearch(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(srv.URL, "", time.Second)

	ids, total, err := c.Search(context.Background(), "protein", 20, 10, SortNewest)
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, ids)
	assert.Equal(t, 42, total)
}

func TestClientFetchMetadataBatched(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(srv.URL, "", time.Second)

	md, err := c.FetchMetadata(context.Background(), []string{"111", "222", "999"})
	require.NoError(t, err)
	require.Len(t, md, 2)
	assert.Equal(t, "Protein timing and hypertrophy", md["111"].Title)
	assert.Equal(t, []string{"Smith J", "Doe A", "Roe B"}, md["111"].Authors)
	assert.Equal(t, "2024 Mar 15", md["111"].PubDate)
	assert.Empty(t, md["222"].Authors)

	empty, err := c.FetchMetadata(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestClientFetchAbstract(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(srv.URL, "", time.Second)

	a, err := c.FetchAbstract(context.Background(), "111")
	require.NoError(t, err)
	assert.Equal(t, "Protein timing and hypertrophy.", a.Title)
	assert.Equal(t, "BACKGROUND: Protein matters.\nRESULTS: 1.6 g/kg was enough.", a.Abstract)

	_, err = c.FetchAbstract(context.Background(), "404")
	assert.True(t, errors.Is(err, ErrNoArticle))
}

func TestClientFetchAbstractKeepsInlineMarkupText(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(srv.URL, "", time.Second)

	a, err := c.FetchAbstract(context.Background(), "333")
	require.NoError(t, err)
	assert.Equal(t, "Effects of creatine on VO2max", a.Title)
	assert.Equal(t, "Trained adults (n=20) gained 1.2 kg m-2 of lean mass.", a.Abstract)
}

func TestClientUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := New(srv.URL, "", time.Second).Search(context.Background(), "x", 0, 10, SortNewest)
	assert.Error(t, err)
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2024 Mar 15":  "2024-03-15",
		"2024 Mar":     "2024-03-01",
		"2025":         "2025-01-01",
		"2024 Winter":  "2024-01-01",
		"2023 Nov-Dec": "2023-01-01",
		"unknown":      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDate(in), in)
	}
}

func TestArticleURL(t *testing.T) {
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/123/", ArticleURL("123"))
}
