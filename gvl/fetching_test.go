package gvl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagug/TCFProcessor/config"
)

func TestLoadFetches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testVendorList))
	}))
	defer server.Close()

	list := Load(context.Background(), server.Client(), config.ReferenceSource{
		Fetch:          true,
		FetchURL:       server.URL,
		FetchTimeoutMS: 1000,
	})

	assert.True(t, list.Loaded())
	assert.Equal(t, uint16(28), list.Version())
}

func TestLoadFallsBackToFileOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "vendor-list.json")
	require.NoError(t, os.WriteFile(path, []byte(testVendorList), 0644))

	list := Load(context.Background(), server.Client(), config.ReferenceSource{
		FilePath:       path,
		Fetch:          true,
		FetchURL:       server.URL,
		FetchTimeoutMS: 1000,
	})

	assert.True(t, list.Loaded())
}

func TestLoadFallsBackToFileOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	list := Load(context.Background(), server.Client(), config.ReferenceSource{
		FilePath:       filepath.Join(t.TempDir(), "missing.json"),
		Fetch:          true,
		FetchURL:       server.URL,
		FetchTimeoutMS: 1000,
	})

	assert.False(t, list.Loaded())
}

func TestLoadFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendor-list.json")
	require.NoError(t, os.WriteFile(path, []byte(testVendorList), 0644))

	list := Load(context.Background(), http.DefaultClient, config.ReferenceSource{FilePath: path})
	assert.True(t, list.Loaded())
}
