package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/relabs-tech/inertial_tracker/internal/reckon"
	"github.com/relabs-tech/inertial_tracker/internal/vipose"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// webServer exposes the control and query surface of a running tracker.
type webServer struct {
	tracker        *reckon.Tracker
	vision         *vipose.Track
	streamInterval time.Duration
}

func newWebServer(tracker *reckon.Tracker, vision *vipose.Track, streamInterval time.Duration) *webServer {
	if streamInterval <= 0 {
		streamInterval = 200 * time.Millisecond
	}
	return &webServer{tracker: tracker, vision: vision, streamInterval: streamInterval}
}

func (s *webServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/path", s.handlePath)
	mux.HandleFunc("/api/vision", s.handleVision)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/api/path/plot.png", s.handlePlotPNG)
	mux.HandleFunc("/report", s.handleReport)
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/", http.FileServer(http.Dir("web")))
	return mux
}

func (s *webServer) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *webServer) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.tracker.Snapshot())
}

func (s *webServer) handlePath(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.tracker.Trajectory())
}

func (s *webServer) handleVision(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.vision.Points())
}

func (s *webServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var cmd commandRequest
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	}
	if err := applyCommand(s.tracker, cmd.Action); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("web: applied command %q", cmd.Action)
	s.writeJSON(w, s.tracker.Snapshot())
}

// pathStats summarizes the recorded trajectory for the stats endpoint.
type pathStats struct {
	Points        int     `json:"points"`
	TotalDistance float64 `json:"total_distance_m"`
	Displacement  float64 `json:"displacement_m"`
	MeanStep      float64 `json:"mean_step_m"`
	StepStdDev    float64 `json:"step_stddev_m"`
	MaxStep       float64 `json:"max_step_m"`
}

func (s *webServer) handleStats(w http.ResponseWriter, r *http.Request) {
	path := s.tracker.Trajectory()

	stats := pathStats{
		Points:        len(path),
		TotalDistance: s.tracker.Distance(),
	}
	if len(path) >= 2 {
		first, last := path[0], path[len(path)-1]
		stats.Displacement = math.Hypot(last.X-first.X, last.Y-first.Y)

		steps := make([]float64, 0, len(path)-1)
		for i := 1; i < len(path); i++ {
			steps = append(steps, math.Hypot(path[i].X-path[i-1].X, path[i].Y-path[i-1].Y))
		}
		stats.MeanStep = stat.Mean(steps, nil)
		stats.StepStdDev = stat.StdDev(steps, nil)
		stats.MaxStep = floats.Max(steps)
	}
	s.writeJSON(w, stats)
}

// handleWS streams estimate frames at the publish interval and accepts
// the same action messages as /api/command.
func (s *webServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(s.streamInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteJSON(s.tracker.Snapshot()); err != nil {
					return
				}
			}
		}
	}()

	for {
		var msg commandRequest
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("web: websocket read error: %v", err)
			return
		}
		if err := applyCommand(s.tracker, msg.Action); err != nil {
			log.Printf("web: websocket command: %v", err)
		}
	}
}

// handlePlotPNG renders both trajectories as a PNG.
func (s *webServer) handlePlotPNG(w http.ResponseWriter, r *http.Request) {
	p := plot.New()
	p.Title.Text = "Trajectory"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	path := s.tracker.Trajectory()
	pts := make(plotter.XYs, len(path))
	for i, pp := range path {
		pts[i] = plotter.XY{X: pp.X, Y: pp.Y}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		http.Error(w, fmt.Sprintf("plot: %v", err), http.StatusInternalServerError)
		return
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("dead reckoning", line)

	if vision := s.vision.Points(); len(vision) > 0 {
		vpts := make(plotter.XYs, len(vision))
		for i, vp := range vision {
			vpts[i] = plotter.XY{X: vp.X, Y: vp.Y}
		}
		vline, err := plotter.NewLine(vpts)
		if err != nil {
			http.Error(w, fmt.Sprintf("plot: %v", err), http.StatusInternalServerError)
			return
		}
		vline.Width = vg.Points(1)
		vline.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		p.Add(vline)
		p.Legend.Add("vision", vline)
	}

	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		http.Error(w, fmt.Sprintf("render: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := wt.WriteTo(w); err != nil {
		log.Printf("web: plot write error: %v", err)
	}
}

// handleReport renders an HTML trajectory report.
func (s *webServer) handleReport(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()

	data := make([]opts.ScatterData, len(snap.Path))
	for i, pp := range snap.Path {
		data[i] = opts.ScatterData{Value: []interface{}{pp.X, pp.Y}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Inertial Tracker", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Dead-Reckoned Trajectory",
			Subtitle: fmt.Sprintf("state=%s distance=%.2fm points=%d", snap.State, snap.Distance, len(snap.Path)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "X (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Y (m)"}),
	)

	scatter.AddSeries("dead reckoning", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))

	if vision := s.vision.Points(); len(vision) > 0 {
		vdata := make([]opts.ScatterData, len(vision))
		for i, vp := range vision {
			vdata[i] = opts.ScatterData{Value: []interface{}{vp.X, vp.Y}}
		}
		scatter.AddSeries("vision", vdata, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("render: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
