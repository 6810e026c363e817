package ris

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedPage = `{
  "documents": [
    {
      "number": "BGBl. I Nr. 10/2025",
      "title": "Bundesgesetz, mit dem das Einkommensteuergesetz 1988 geändert wird",
      "published": "2025-06-30",
      "application": "BgblAuth",
      "contentUrls": [
        {"dataType": "xml", "url": "https://ris.test/10.xml"},
        {"dataType": "html", "url": "https://ris.test/10.html"}
      ]
    },
    {
      "number": "LGBl. Nr. 44/2025",
      "title": "Wiener Jugendschutzgesetz",
      "published": "2025-07-02",
      "application": "LgblWI",
      "contentUrls": []
    }
  ]
}`

func TestQueryPublications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/publications", r.URL.Path)
		assert.Equal(t, "BgblAuth", r.URL.Query().Get("application"))
		assert.Equal(t, "2025-06-16", r.URL.Query().Get("from"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Write([]byte(feedPage))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	defer c.Close()

	docs, err := c.QueryPublications(context.Background(), Query{
		Jurisdiction: "BgblAuth",
		From:         time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		Limit:        100,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "BGBl. I Nr. 10/2025", docs[0].NaturalID)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), docs[0].PublishedAt)
	assert.True(t, docs[0].Federal())
	assert.Equal(t, "https://ris.test/10.xml", docs[0].URLFor("xml"))
	assert.Equal(t, "https://ris.test/10.html", docs[0].URLFor("html"))
	assert.Empty(t, docs[0].URLFor("pdf"))

	assert.False(t, docs[1].Federal())
	assert.Empty(t, docs[1].ContentURLs)
}

func TestQueryPublicationsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	defer c.Close()

	_, err := c.QueryPublications(context.Background(), Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/10.xml":
			w.Write([]byte("<nutzdaten/>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	defer c.Close()

	body, err := c.FetchBody(context.Background(), srv.URL+"/10.xml")
	require.NoError(t, err)
	assert.Equal(t, "<nutzdaten/>", string(body))

	_, err = c.FetchBody(context.Background(), srv.URL+"/missing.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestSearchLaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/laws/search", r.URL.Path)
		assert.Equal(t, "Einkommensteuergesetz 1988", r.URL.Query().Get("title"))
		w.Write([]byte(`{"documents":[{"shortTitle":"Einkommensteuergesetz 1988","publicationOrgan":"BGBl. Nr.","publicationNumber":"400/1988","consolidatedVersionUrl":"https://ris.test/estg"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	defer c.Close()

	docs, err := c.SearchLaw(context.Background(), "Einkommensteuergesetz 1988")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "400/1988", docs[0].Number)
	assert.Equal(t, "https://ris.test/estg", docs[0].ConsolidatedURL)
}

func TestSearchLawEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"documents":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	defer c.Close()

	docs, err := c.SearchLaw(context.Background(), "Unbekanntes Gesetz")
	require.NoError(t, err)
	assert.Empty(t, docs)
}
