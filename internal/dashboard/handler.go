package dashboard

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hyp3rd/ewrap"
	"github.com/sirupsen/logrus"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

// SequenceData describes one named gap sequence. Gaps is filled when the
// request names a length.
type SequenceData struct {
	gaps.Info
	Gaps []int `json:"gaps,omitempty"`
}

// ErrorData is the body of every failed API request.
type ErrorData struct {
	Error string `json:"error"`
}

// handleSequences lists the named gap sequences.
func (s *Server) handleSequences(w http.ResponseWriter, r *http.Request) {
	length, err := intParam(r.URL.Query(), "length", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorData{Error: err.Error()})
		return
	}
	if length < 0 {
		writeJSON(w, http.StatusBadRequest, ErrorData{Error: sentinel.ErrInvalidLength.Error()})
		return
	}

	catalog := gaps.Catalog()
	out := make([]SequenceData, 0, len(catalog))
	for _, info := range catalog {
		d := SequenceData{Info: info}
		if length > 0 {
			d.Gaps = gaps.MustParse(info.Name).Gaps(length)
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRun runs one benchmark and answers with its JSON report. Each round
// is broadcast as it completes, followed by the report.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, ErrorData{Error: "method not allowed"})
		return
	}

	cfg, err := parseRunQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorData{Error: err.Error()})
		return
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	log := s.logger.WithFields(logrus.Fields{
		"length":   cfg.Length,
		"rounds":   cfg.Rounds,
		"seed":     cfg.Seed,
		"sequence": cfg.Sequence.String(),
	})
	log.Info("run requested")

	results, err := benchmark.Run(r.Context(), cfg,
		benchmark.WithLogger(s.logger),
		benchmark.WithProgress(func(p benchmark.Progress) {
			if err := s.BroadcastData(MessageTypeRound, p); err != nil {
				log.WithError(err).Warn("round not broadcast")
			}
		}),
	)
	if err != nil {
		log.WithError(err).Warn("run failed")
		writeJSON(w, runStatus(err), ErrorData{Error: err.Error()})
		return
	}

	report, err := benchmark.NewReport(cfg, results)
	if err != nil {
		writeJSON(w, runStatus(err), ErrorData{Error: err.Error()})
		return
	}

	if err := s.BroadcastData(MessageTypeReport, report); err != nil {
		log.WithError(err).Warn("report not broadcast")
	}
	log.WithField("fingerprint", report.Fingerprint).Info("run complete")

	writeJSON(w, http.StatusOK, report)
}

// parseRunQuery builds a run configuration from the query parameters length,
// rounds, seed, gaps, quicksort, max_distance and probability. Missing
// parameters keep their defaults.
func parseRunQuery(q url.Values) (benchmark.Config, error) {
	cfg := benchmark.DefaultConfig()

	var err error
	if cfg.Length, err = intParam(q, "length", cfg.Length); err != nil {
		return cfg, err
	}
	if cfg.Rounds, err = intParam(q, "rounds", cfg.Rounds); err != nil {
		return cfg, err
	}
	if cfg.MaxDistance, err = intParam(q, "max_distance", cfg.MaxDistance); err != nil {
		return cfg, err
	}
	if v := q.Get("seed"); v != "" {
		if cfg.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return cfg, ewrap.Wrapf(err, "seed %q", v)
		}
	}
	if v := q.Get("quicksort"); v != "" {
		if cfg.Quicksort, err = strconv.ParseBool(v); err != nil {
			return cfg, ewrap.Wrapf(err, "quicksort %q", v)
		}
	}
	if v := q.Get("probability"); v != "" {
		if cfg.Probability, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, ewrap.Wrapf(err, "probability %q", v)
		}
	}
	if cfg.Sequence, err = gaps.Parse(q.Get("gaps")); err != nil {
		return cfg, err
	}
	if err := cfg.Sequence.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Rounds == 0 {
		return cfg, ewrap.Wrap(sentinel.ErrEmptyResults, "rounds must be positive")
	}
	return cfg, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ewrap.Wrapf(err, "%s %q", name, v)
	}
	return n, nil
}

// runStatus maps a run error to a response status.
func runStatus(err error) int {
	switch {
	case errors.Is(err, sentinel.ErrInvalidProbability),
		errors.Is(err, sentinel.ErrInvalidLength),
		errors.Is(err, sentinel.ErrInvalidRounds),
		errors.Is(err, sentinel.ErrEmptyResults):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
