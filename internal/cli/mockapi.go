package cli

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newMockAPICommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "mockapi",
		Short: "Serve a fake DOC API for local development",
		Long: "Serves a small fixture data set using the upstream API's inconsistent " +
			"response shapes: a wrapped items array, a bare array, and a data wrapper. " +
			"Point HIKO_DOC_BASE_URL at it with any API key.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mock DOC API listening on %s\n", addr)
			return http.ListenAndServe(addr, mockAPIHandler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9090", "listen address")
	return cmd
}

func mockAPIHandler() http.Handler {
	mux := http.NewServeMux()

	// Each endpoint deliberately uses a different list shape, matching the
	// upstream API's behavior across endpoint versions.
	mux.HandleFunc("GET /tracks", func(w http.ResponseWriter, _ *http.Request) {
		writeMockJSON(w, map[string]any{"items": mockTracks})
	})
	mux.HandleFunc("GET /tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, t := range mockTracks {
			if t["id"] == r.PathValue("id") {
				writeMockJSON(w, map[string]any{"item": t})
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /huts", func(w http.ResponseWriter, _ *http.Request) {
		writeMockJSON(w, mockHuts)
	})
	mux.HandleFunc("GET /campsites", func(w http.ResponseWriter, _ *http.Request) {
		writeMockJSON(w, map[string]any{"data": mockCampsites})
	})
	mux.HandleFunc("GET /alerts", func(w http.ResponseWriter, _ *http.Request) {
		writeMockJSON(w, map[string]any{"items": mockAlerts})
	})

	return mux
}

func writeMockJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck // dev fixture server
}

var mockTracks = []map[string]any{
	{
		"id":     "routeburn-track",
		"name":   "Routeburn Track",
		"region": "Fiordland",
		"startPoint": map[string]any{
			"lat": -44.7256, "lng": 168.2611,
		},
		"lengthKm":      33.0,
		"elevationGain": 1230,
		"difficulty":    "Intermediate",
		"multiDay":      true,
		"status":        "Open",
		"tags":          []string{"great-walk", "alpine"},
		"geometry": map[string]any{
			"type":        "LineString",
			"coordinates": []any{[]any{168.2611, -44.7256}, []any{168.1836, -44.7165}},
		},
	},
	{
		"trackId":  "roys-peak",
		"title":    "Roys Peak Track",
		"place":    "Wanaka",
		"location": map[string]any{"latitude": "-44.6892", "longitude": "169.0623"},
		"distance": "16km",
		"grade":    "hard",
		"status":   "Caution - ice above the bushline",
	},
	{
		"assetId":  "hooker-valley",
		"name":     "Hooker Valley Track",
		"area":     "Aoraki/Mount Cook",
		"centroid": []any{170.0947, -43.7156},
		"length":   "10000 m",
		"level":    "easy",
	},
}

var mockHuts = []map[string]any{
	{
		"hutId":      "luxmore-hut",
		"name":       "Luxmore Hut",
		"location":   map[string]any{"lat": -45.3753, "lng": 167.6022},
		"beds":       54,
		"facilities": []string{"heating", "water", "toilets"},
		"bookingUrl": "https://bookings.doc.example/luxmore",
	},
	{
		"id":       "mueller-hut",
		"title":    "Mueller Hut",
		"centroid": []any{170.0631, -43.7269},
		"capacity": "28",
	},
}

var mockCampsites = []map[string]any{
	{
		"campsiteId": "white-horse-hill",
		"name":       "White Horse Hill Campground",
		"location":   map[string]any{"lat": -43.7194, "lng": 170.0917},
		"category":   "standard",
		"facilities": []string{"water", "toilets"},
	},
}

var mockAlerts = []map[string]any{
	{
		"alertId":    "alert-routeburn-closure",
		"sourceType": "track",
		"sourceId":   "routeburn-track",
		"title":      "Partial closure after slip",
		"body":       "The section between Routeburn Falls and Harris Saddle is closed.",
		"severity":   "closed",
		"startDate":  "2026-08-20",
	},
	{
		"id":       "alert-roys-peak-lambing",
		"type":     "track",
		"trackId":  "roys-peak",
		"name":     "Lambing season",
		"details":  "Expect stock on the lower track.",
		"level":    "info",
		"validTo":  "2026-11-10",
		"region":   "Wanaka",
	},
	{
		"id":         "alert-fiordland-weather",
		"sourceType": "region",
		"title":      "Severe weather watch",
		"severity":   "warning",
		"region":     "Fiordland",
	},
}
