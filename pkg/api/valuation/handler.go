package valuation

import (
	"encoding/json"
	"fmt"
	"net/http"

	"retail_valuation/pkg/core/assumption"
	"retail_valuation/pkg/core/pipeline"
)

var defaultAssumptionsPath string
var defaultScenariosPath string

// InitHandler records where the default config files live so the handler can
// serve defaults and merge partial requests.
func InitHandler(assumptionsPath, scenariosPath string) {
	defaultAssumptionsPath = assumptionsPath
	defaultScenariosPath = scenariosPath
}

// HandleValuationReport runs the full pipeline for a POSTed request. An empty
// body runs the configured defaults, so the frontend can render a report
// before the user touches any assumption.
func HandleValuationReport(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := assumption.LoadRequest(defaultAssumptionsPath, defaultScenariosPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load default assumptions: %v", err), http.StatusInternalServerError)
		return
	}

	// Overlay the posted overrides on the defaults. Decoding into the loaded
	// request means absent fields keep their configured values.
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
			return
		}
	}

	report := pipeline.Run(req)
	fmt.Printf("[VALUATION] Report %s: blended value %.0f (upside %.1f%%)\n",
		report.RunID, report.Blend.Value, report.Blend.Upside*100)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		fmt.Printf("[VALUATION] Failed to encode report: %v\n", err)
	}
}

// HandleDefaults returns the configured default request so the frontend can
// pre-fill its assumption form.
func HandleDefaults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := assumption.LoadRequest(defaultAssumptionsPath, defaultScenariosPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load default assumptions: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(req); err != nil {
		fmt.Printf("[VALUATION] Failed to encode defaults: %v\n", err)
	}
}
