package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/nagug/TCFProcessor/cmplist"
	"github.com/nagug/TCFProcessor/config"
	"github.com/nagug/TCFProcessor/endpoints"
	"github.com/nagug/TCFProcessor/gvl"
	"github.com/nagug/TCFProcessor/metrics"
	"github.com/nagug/TCFProcessor/router"
	"github.com/nagug/TCFProcessor/server"
)

// Rev holds the binary revision string.
// Set manually at build time using:
//    go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

const configFileName = "tcfprocessor"

func main() {
	flag.Parse() // required for glog flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	serve(Rev, cfg)
}

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func serve(revision string, cfg *config.Configuration) {
	client := &http.Client{}

	metricsRegistry := prometheus.NewRegistry()
	deps := endpoints.Deps{
		Vendors: gvl.Load(context.Background(), client, cfg.VendorList),
		CMPs:    cmplist.Load(context.Background(), client, cfg.CMPList),
		Metrics: metrics.New(metricsRegistry),
	}

	r := router.New(deps, "", revision)
	server.Listen(cfg, router.SupportCORS(r), metricsRegistry)
}
