package rtsp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name:      "requests_total",
		Namespace: "rtsp_server",
		Help:      "number of RTSP requests answered",
	}, []string{"method", "code"})
	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name:      "connections_active",
		Namespace: "rtsp_server",
		Help:      "number of open RTSP connections",
	})
	framesPushed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name:      "frames_pushed_total",
		Namespace: "rtsp_server",
		Help:      "number of access units accepted by a transport session",
	}, []string{"stream"})
	framesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name:      "frames_rejected_total",
		Namespace: "rtsp_server",
		Help:      "number of access units refused because no session was playing",
	}, []string{"stream"})
)
