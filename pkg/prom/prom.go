package prom

import (
	"sync"

	"github.com/mentorsfoundation/donation-portal/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	xhttp "github.com/mentorsfoundation/donation-portal/pkg/http"
)

const (
	SystemPayments = "payment"
	SystemMailer   = "mailer"
)

const (
	MetricPaymentsRecorded = "recorded_total"
	MetricMailSent         = "sent_total"
	MetricMailFailed       = "failed_total"
)

var createLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var counters = make(map[string]prometheus.Counter)
var counterVecs = make(map[string]*prometheus.CounterVec)

var defaultLabels prometheus.Labels

// Create registers the portal's metric set. Metrics stay disabled (all
// recording calls become no-ops) unless this is called.
func Create(host string, env string, nameSpace string) error {
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(SystemPayments, MetricPaymentsRecorded, []string{"method"}))
	hasError(createCounter(SystemMailer, MetricMailSent))
	hasError(createCounter(SystemMailer, MetricMailFailed))

	return err
}

// ListenAndServer exposes /metrics (or the given uri) on its own listener.
func ListenAndServer(port string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "url", url)
	if err := s.ListenAndServe(port); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func createCounter(subsystem, name string) error {
	createLock.Lock()
	defer createLock.Unlock()
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
	})
	counters[subsystem+name] = c
	return prometheus.Register(c)
}

func createCounterVec(subsystem, name string, labels []string) error {
	createLock.Lock()
	defer createLock.Unlock()
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
	}, labels)
	counterVecs[subsystem+name] = c
	return prometheus.Register(c)
}

func IncCounter(subsystem, name string) {
	AddCounter(subsystem, name, 1)
}

func AddCounter(subsystem, name string, number float64) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := counters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddCounterVec(subsystem, name string, number float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := counterVecs[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(number)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}
