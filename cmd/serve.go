package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/pipeline"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves POST /clean on $MIDICLEAN_ADDR (default :8080)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := constants.GetListenAddr()
		logrus.WithField("addr", addr).Info("listening")
		return http.ListenAndServe(addr, NewRouter())
	},
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/clean", HandleClean).Methods("POST")
	return cors.Default().Handler(router)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrMalformedInput):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// HandleClean takes a MIDI file as the request body and options as query
// parameters named like the CLI flags with underscores, e.g.
// /clean?quantize=1/16&force_key=Dminor&vel_clamp=40,100
func HandleClean(w http.ResponseWriter, r *http.Request) {
	requestId := uuid.New().String()
	log := logrus.WithField("request", requestId)
	w.Header().Set("X-Request-Id", requestId)

	cfg, err := configFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	out, song, stats, err := p.WithLogger(log).CleanReader(body)
	if err != nil {
		log.WithError(err).Warn("clean failed")
		writeError(w, statusFor(err), err)
		return
	}

	if cfg.DryRun {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.CleanSummary{
			RequestId:         requestId,
			TicksPerQuarter:   song.TicksPerQuarter,
			NotesIn:           stats.NotesIn,
			NotesOut:          stats.NotesOut,
			DuplicatesRemoved: stats.DuplicatesRemoved,
			OverlapsTrimmed:   stats.OverlapsTrimmed,
			DryRun:            true,
		})
		return
	}

	var buf bytes.Buffer
	if _, err := out.WriteTo(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("X-Notes-In", strconv.Itoa(stats.NotesIn))
	w.Header().Set("X-Notes-Out", strconv.Itoa(stats.NotesOut))
	w.Write(buf.Bytes())
	log.WithFields(logrus.Fields{"notes_in": stats.NotesIn, "notes_out": stats.NotesOut}).Info("cleaned")
}

func configFromQuery(q url.Values) (model.Config, error) {
	cfg := pipeline.DefaultConfig()
	var err error

	boolParam := func(name string, dst *bool) {
		if v := q.Get(name); v != "" && err == nil {
			*dst, err = strconv.ParseBool(v)
			err = errors.Wrapf(err, "query parameter %v", name)
		}
	}
	int64Param := func(name string, dst *int64) {
		if v := q.Get(name); v != "" && err == nil {
			*dst, err = strconv.ParseInt(v, 10, 64)
			err = errors.Wrapf(err, "query parameter %v", name)
		}
	}
	floatParam := func(name string, dst *float64) {
		if v := q.Get(name); v != "" && err == nil {
			*dst, err = strconv.ParseFloat(v, 64)
			err = errors.Wrapf(err, "query parameter %v", name)
		}
	}

	cfg.Quantize = q.Get("quantize")
	cfg.ForceKey = q.Get("force_key")
	if v := q.Get("swing_grid"); v != "" {
		cfg.SwingGrid = v
	}
	boolParam("straighten", &cfg.Straighten)
	boolParam("humanize", &cfg.Humanize)
	boolParam("vel_human", &cfg.VelHuman)
	boolParam("dedupe", &cfg.Dedupe)
	boolParam("legato_fix", &cfg.LegatoFix)
	boolParam("dry_run", &cfg.DryRun)
	boolParam("swing_before_quantize", &cfg.SwingBeforeQuantize)
	boolParam("allow_unpaired", &cfg.AllowUnpaired)
	floatParam("swing", &cfg.Swing)
	floatParam("vel_scale", &cfg.VelScale)
	int64Param("straighten_window", &cfg.StraightenWindow)
	int64Param("humanize_ticks", &cfg.HumanizeTicks)
	int64Param("dedupe_epsilon", &cfg.DedupeEpsilon)

	var variance int64 = int64(cfg.VelVariance)
	int64Param("vel_variance", &variance)
	cfg.VelVariance = int(variance)

	if q.Has("seed") {
		var seed int64
		int64Param("seed", &seed)
		cfg.Seed = &seed
	}
	if err != nil {
		return cfg, errors.Wrap(model.ErrInvalidConfiguration, err.Error())
	}

	if v := q.Get("vel_clamp"); v != "" {
		lo, hi, found := strings.Cut(v, ",")
		minVel, errMin := strconv.Atoi(strings.TrimSpace(lo))
		maxVel, errMax := strconv.Atoi(strings.TrimSpace(hi))
		if !found || errMin != nil || errMax != nil {
			return cfg, errors.Wrapf(model.ErrInvalidConfiguration, "vel_clamp %q must be MIN,MAX", v)
		}
		cfg.VelClamp = &model.VelocityRange{Min: minVel, Max: maxVel}
	}
	return cfg, nil
}
