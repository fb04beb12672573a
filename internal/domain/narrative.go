package domain

// CompactItem is the reduced article form handed to the Narrative
// Service. ID is only populated on the selection path.
type CompactItem struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
	Time    string `json:"time"`
	Note    string `json:"note,omitempty"`
}

// ForecastSignal is one near-term signal inside a forecast.
type ForecastSignal struct {
	Headline     string  `json:"headline"`
	WhyItMatters string  `json:"why_it_matters"`
	Region       string  `json:"region,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	WindowDays   int     `json:"window_days,omitempty"`
}

// ForecastScenario is one branch of the 7-14 day outlook.
type ForecastScenario struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Probability float64  `json:"probability,omitempty"`
	Triggers    []string `json:"triggers,omitempty"`
	Watchlist   []string `json:"watchlist,omitempty"`
}

// Forecast is the structured response of the Narrative Service forecast
// operation: themes, signals, scenarios, and free narrative text.
type Forecast struct {
	AsOf              string             `json:"as_of_jst,omitempty"`
	CoverageCount     int                `json:"coverage_count,omitempty"`
	TopThemes         []string           `json:"top_themes,omitempty"`
	Signals           []ForecastSignal   `json:"signals,omitempty"`
	Scenarios         []ForecastScenario `json:"scenarios_7_14d,omitempty"`
	Narrative         string             `json:"narrative,omitempty"`
	Caveats           string             `json:"caveats,omitempty"`
	ConfidenceOverall float64            `json:"confidence_overall,omitempty"`
}

// Selection is the phrase-extraction result of the Narrative Service.
type Selection struct {
	Phrases     []string `json:"phrases"`
	SelectedIDs []string `json:"selected_ids"`
}
