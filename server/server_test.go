package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/nagug/TCFProcessor/config"
)

func TestNewMainServer(t *testing.T) {
	cfg := &config.Configuration{Host: "", Port: 8000}
	server := newMainServer(cfg, http.NotFoundHandler())

	assert.Equal(t, ":8000", server.Addr)
	assert.NotNil(t, server.Handler)
}

func TestNewAdminServerServesMetrics(t *testing.T) {
	cfg := &config.Configuration{Host: "", AdminPort: 6060}
	server := newAdminServer(cfg, prometheus.NewRegistry())

	assert.Equal(t, ":6060", server.Addr)

	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestWaitFansOutSignals(t *testing.T) {
	inbound := make(chan os.Signal, 1)
	outbound := make(chan os.Signal)
	done := make(chan struct{})

	go func() {
		<-outbound
		done <- struct{}{}
	}()

	inbound <- syscall.SIGTERM
	wait(inbound, done, outbound)
}
