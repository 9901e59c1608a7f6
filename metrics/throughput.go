package metrics

import (
	"time"

	"github.com/paulbellamy/ratecounter"
	"github.com/prometheus/client_golang/prometheus"
)

// Throughput tracks bytes served over a trailing one-minute window, fed from
// the response body copy loop as chunks reach the client.
var Throughput = ratecounter.NewRateCounter(time.Minute)

func init() {
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "response_bytes_per_minute",
		Help: "Response bytes written to clients over the trailing one-minute window.",
	}, func() float64 {
		return float64(Throughput.Rate())
	}))
}

// RecordBytesSent adds n bytes to the trailing throughput window.
func RecordBytesSent(n int) {
	Throughput.Incr(int64(n))
}
