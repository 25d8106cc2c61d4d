package gvl

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

// Load builds the vendor catalog index from the configured source. When
// fetching is enabled it tries the remote list first and falls back to the
// file path; the index degrades to empty if every source fails. Load happens
// once, at startup, so a failed fetch here is never retried.
//
// Source failures are logged by severity: file degradation is a coded
// warning (the documented degrade path), while a failed fetch of an
// explicitly configured URL is an error.
func Load(ctx context.Context, client *http.Client, cfg config.ReferenceSource) VendorList {
	list, errs := load(ctx, client, cfg)

	for _, loadErr := range errs {
		if errortypes.IsWarning(loadErr) {
			glog.Warning(loadErr.Error())
		} else {
			glog.Error(loadErr.Error())
		}
	}
	if !list.Loaded() && errortypes.ContainsFatalError(errs) {
		glog.Error("No vendor list available from any configured source. Vendor details lookup will be limited.")
	}
	return list
}

func load(ctx context.Context, client *http.Client, cfg config.ReferenceSource) (VendorList, []error) {
	var errs []error

	if cfg.Fetch {
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout())
		defer cancel()

		if body, err := fetchVendorList(fetchCtx, client, cfg.FetchURL); err != nil {
			errs = append(errs, fmt.Errorf("error fetching vendor list from %s: %v, falling back to %s", cfg.FetchURL, err, cfg.FilePath))
		} else if list, err := ParseEagerly(body); err != nil {
			errs = append(errs, fmt.Errorf("GET %s returned malformed JSON: %v, falling back to %s", cfg.FetchURL, err, cfg.FilePath))
		} else {
			glog.Infof("Fetched vendor list version %d with %d vendors from %s", list.Version(), list.Len(), cfg.FetchURL)
			return list, nil
		}
	}

	list, err := LoadFile(cfg.FilePath)
	if err != nil {
		errs = append(errs, err)
	}
	return list, errs
}

func fetchVendorList(ctx context.Context, client *http.Client, url string) ([]byte, error) {
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
