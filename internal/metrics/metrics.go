package metrics

import (
	"net/http"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the portfolio's Prometheus metrics.
type Recorder struct {
	reg *prom.Registry

	once               sync.Once
	pageViews          *prom.CounterVec
	contactSubmissions *prom.CounterVec
	navSessions        prom.Gauge
	sectionActivations *prom.CounterVec
	countupStreams     *prom.CounterVec
	contentReloads     prom.Counter
	visitorsPurged     prom.Counter
}

// New registers every metric on reg, or on a fresh registry when reg is nil.
func New(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{reg: reg}
	r.once.Do(func() {
		r.pageViews = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "page_views_total",
			Help:      "Tracked page views by path",
		}, []string{"path"})
		r.contactSubmissions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome",
		}, []string{"outcome"})
		r.navSessions = prom.NewGauge(prom.GaugeOpts{
			Namespace: "portfolio",
			Name:      "nav_sessions",
			Help:      "Mounted navigation headers",
		})
		r.sectionActivations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "section_activations_total",
			Help:      "Times a section became the highlighted nav entry",
		}, []string{"section"})
		r.countupStreams = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "countup_streams_total",
			Help:      "Count-up streams by how they ended",
		}, []string{"result"})
		r.contentReloads = prom.NewCounter(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "content_reloads_total",
			Help:      "Successful content document reloads",
		})
		r.visitorsPurged = prom.NewCounter(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "visitors_purged_total",
			Help:      "Visitor rows removed by the retention job",
		})
		reg.MustRegister(r.pageViews, r.contactSubmissions, r.navSessions, r.sectionActivations,
			r.countupStreams, r.contentReloads, r.visitorsPurged,
			promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	})
	return r
}

func (r *Recorder) PageView(path string) { r.pageViews.WithLabelValues(path).Inc() }

// ContactSubmission counts a submission; outcome is "delivered", "stored"
// (saved but not forwarded), "invalid" or "error".
func (r *Recorder) ContactSubmission(outcome string) {
	r.contactSubmissions.WithLabelValues(outcome).Inc()
}

func (r *Recorder) SetNavSessions(n int) { r.navSessions.Set(float64(n)) }

func (r *Recorder) SectionActivated(section string) {
	r.sectionActivations.WithLabelValues(section).Inc()
}

// CountupStream counts a finished stream: "complete" or "cancelled".
func (r *Recorder) CountupStream(result string) { r.countupStreams.WithLabelValues(result).Inc() }

func (r *Recorder) ContentReloaded() { r.contentReloads.Inc() }

func (r *Recorder) VisitorsPurged(n int64) { r.visitorsPurged.Add(float64(n)) }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
