package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

type Service struct {
	LobbiesCreated   prometheus.Counter
	Commands         *prometheus.CounterVec
	CommandsRejected *prometheus.CounterVec
	DraftsCompleted  prometheus.Counter
	Saved            prometheus.Counter
	ActiveLobbies    prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the draft metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		LobbiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draft_lobbies_created_total",
			Help: "The total number of lobbies created.",
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "draft_commands_total",
			Help: "The total number of accepted draft commands by type.",
		}, []string{"type"}),
		CommandsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "draft_commands_rejected_total",
			Help: "The total number of rejected draft commands by reason.",
		}, []string{"reason"}),
		DraftsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draft_drafts_completed_total",
			Help: "The total number of drafts that reached completion.",
		}),
		Saved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draft_saved_total",
			Help: "The total number of drafts saved.",
		}),
		ActiveLobbies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "draft_active_lobbies",
			Help: "The number of live lobbies.",
		}),
	}

	reg.MustRegister(
		s.LobbiesCreated,
		s.Commands,
		s.CommandsRejected,
		s.DraftsCompleted,
		s.Saved,
		s.ActiveLobbies,
	)

	return s
}

func (s *Service) IncLobbiesCreated() {
	s.LobbiesCreated.Inc()
}

func (s *Service) IncCommand(cmdType string) {
	s.Commands.WithLabelValues(cmdType).Inc()
}

func (s *Service) IncCommandRejected(reason string) {
	s.CommandsRejected.WithLabelValues(reason).Inc()
}

func (s *Service) IncDraftsCompleted() {
	s.DraftsCompleted.Inc()
}

func (s *Service) IncSaved() {
	s.Saved.Inc()
}

func (s *Service) SetActiveLobbies(n int) {
	s.ActiveLobbies.Set(float64(n))
}
