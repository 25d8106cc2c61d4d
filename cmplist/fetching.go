package cmplist

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/context/ctxhttp"

	"github.com/nagug/TCFProcessor/config"
	"github.com/nagug/TCFProcessor/errortypes"
)

// Load builds the CMP registry index from the configured source, trying the
// remote list first when fetching is enabled and falling back to the file
// path. Runs once at startup; failures degrade to an empty index, logged by
// severity the same way the vendor catalog loader does.
func Load(ctx context.Context, client *http.Client, cfg config.ReferenceSource) Registry {
	registry, errs := load(ctx, client, cfg)

	for _, loadErr := range errs {
		if errortypes.IsWarning(loadErr) {
			glog.Warning(loadErr.Error())
		} else {
			glog.Error(loadErr.Error())
		}
	}
	if !registry.Loaded() && errortypes.ContainsFatalError(errs) {
		glog.Error("No CMP list available from any configured source. CMP details lookup will be limited.")
	}
	return registry
}

func load(ctx context.Context, client *http.Client, cfg config.ReferenceSource) (Registry, []error) {
	var errs []error

	if cfg.Fetch {
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout())
		defer cancel()

		if body, err := fetchCMPList(fetchCtx, client, cfg.FetchURL); err != nil {
			errs = append(errs, fmt.Errorf("error fetching CMP list from %s: %v, falling back to %s", cfg.FetchURL, err, cfg.FilePath))
		} else if registry, err := Parse(body); err != nil {
			errs = append(errs, fmt.Errorf("GET %s returned malformed JSON: %v, falling back to %s", cfg.FetchURL, err, cfg.FilePath))
		} else {
			glog.Infof("Fetched CMP list with %d CMPs from %s", registry.Len(), cfg.FetchURL)
			return registry, nil
		}
	}

	registry, err := LoadFile(cfg.FilePath)
	if err != nil {
		errs = append(errs, err)
	}
	return registry, errs
}

func fetchCMPList(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GET %s request: %v", url, err)
	}

	resp, err := ctxhttp.Do(ctx, client, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s returned %d", url, resp.StatusCode)
	}
	return respBody, nil
}
