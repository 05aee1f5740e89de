// Package progress accumulates per-competency score history for a practice
// session and derives trend, readiness, and study-plan views from it.
//
// History is bounded: each competency keeps at most the configured number of
// recent entries, oldest evicted first, so long-running sessions cannot grow
// without limit. All methods are safe for concurrent use.
package progress

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"prepcoach/internal/errors"
	"prepcoach/internal/profile"
	"prepcoach/internal/types"
)

const (
	// defaultHistoryLimit applies when the configured limit is not positive.
	defaultHistoryLimit = 50

	// trendThreshold separates a real trend from noise when comparing the
	// recent average against the early average.
	trendThreshold = 0.5

	// minTrendCompetencies is how many competencies must have at least two
	// attempts before any trend is reported.
	minTrendCompetencies = 2

	strengthThreshold = 7.0
	weaknessThreshold = 5.0
	focusThreshold    = 6.0

	focusAreaLimit   = 3
	maintenanceLimit = 2

	focusSessionsPerWeek       = 3
	maintenanceSessionsPerWeek = 1

	targetOverallScore = 7.5
	planTimelineWeeks  = 4
)

// Tracker records practice scores per competency. Construct with NewTracker;
// the zero value has no history map and will panic on use.
type Tracker struct {
	mu      sync.Mutex
	limit   int
	logger  *errors.Logger
	history map[string][]types.ProgressEntry
}

// NewTracker returns a tracker that keeps at most historyLimit entries per
// competency.
func NewTracker(historyLimit int, logger *errors.Logger) *Tracker {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Tracker{
		limit:   historyLimit,
		logger:  logger,
		history: make(map[string][]types.ProgressEntry),
	}
}

// Record appends one practice attempt. Scores are clamped to [0,10] and the
// oldest entry is dropped once the competency has reached the history limit.
func (t *Tracker) Record(competency string, score float64, notes string) {
	competency = strings.TrimSpace(competency)
	if competency == "" {
		t.logger.Warn("progress entry dropped, competency is empty")
		return
	}
	entry := types.ProgressEntry{
		Competency: competency,
		Score:      clampScore(score),
		Timestamp:  time.Now().UTC(),
		Notes:      notes,
	}

	t.mu.Lock()
	entries := t.history[competency]
	if len(entries) >= t.limit {
		copy(entries, entries[1:])
		entries[len(entries)-1] = entry
	} else {
		entries = append(entries, entry)
	}
	t.history[competency] = entries
	t.mu.Unlock()

	t.logger.Debug("progress recorded",
		"competency", competency,
		"score", entry.Score,
		"attempts", len(entries))
}

// Entries returns a copy of the retained history for one competency, oldest
// first.
func (t *Tracker) Entries(competency string) []types.ProgressEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := t.history[competency]
	if len(entries) == 0 {
		return nil
	}
	return append([]types.ProgressEntry(nil), entries...)
}

// Summary aggregates the retained history per competency and classifies the
// cross-competency trend. The trend compares the mean of latest scores
// against the mean of first scores over competencies with at least two
// attempts; with fewer than two such competencies it stays "no_data".
func (t *Tracker) Summary() types.ProgressSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summaryLocked()
}

// Performance splits competencies into strengths and weaknesses by average
// score and derives coaching recommendations from the split.
func (t *Tracker) Performance() types.PerformanceAnalysis {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.performanceLocked()
}

// Readiness labels overall interview readiness from the average of every
// retained score.
func (t *Tracker) Readiness() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return readinessLevel(t.performanceLocked().OverallAverage)
}

// StudyPlan proposes a practice schedule: the weakest competencies averaging
// below 6 become focus areas with three sessions per week and an easy-to-hard
// progression, and up to two strong competencies keep one hard maintenance
// session per week.
func (t *Tracker) StudyPlan() types.StudyPlan {
	t.mu.Lock()
	defer t.mu.Unlock()
	return studyPlanFrom(t.summaryLocked())
}

// Report bundles every progress view as one consistent snapshot.
func (t *Tracker) Report() types.ProgressReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	summary := t.summaryLocked()
	performance := t.performanceLocked()
	return types.ProgressReport{
		Summary:     summary,
		Performance: performance,
		Readiness:   readinessLevel(performance.OverallAverage),
		StudyPlan:   studyPlanFrom(summary),
	}
}

func (t *Tracker) summaryLocked() types.ProgressSummary {
	summary := types.ProgressSummary{
		Competencies: make(map[string]types.CompetencyProgress, len(t.history)),
		Trend:        types.TrendNoData,
	}

	var recent, early []float64
	for competency, entries := range t.history {
		if len(entries) == 0 {
			continue
		}
		first := entries[0].Score
		latest := entries[len(entries)-1].Score
		best := first
		total := 0.0
		for _, entry := range entries {
			total += entry.Score
			if entry.Score > best {
				best = entry.Score
			}
		}
		average := total / float64(len(entries))
		improvement := 0.0
		if len(entries) > 1 {
			improvement = latest - first
		}
		level, next := competencyReadiness(average)
		summary.Competencies[competency] = types.CompetencyProgress{
			Average:     average,
			Attempts:    len(entries),
			Latest:      latest,
			Best:        best,
			Improvement: improvement,
			Readiness:   level,
			NextStep:    next,
		}
		summary.TotalAnswers += len(entries)
		if len(entries) >= 2 {
			recent = append(recent, latest)
			early = append(early, first)
		}
	}

	if len(recent) >= minTrendCompetencies {
		recentAvg := mean(recent)
		earlyAvg := mean(early)
		switch {
		case recentAvg > earlyAvg+trendThreshold:
			summary.Trend = types.TrendImproving
		case recentAvg < earlyAvg-trendThreshold:
			summary.Trend = types.TrendDeclining
		default:
			summary.Trend = types.TrendStable
		}
	}
	return summary
}

func (t *Tracker) performanceLocked() types.PerformanceAnalysis {
	analysis := types.PerformanceAnalysis{
		Strengths:  []string{},
		Weaknesses: []string{},
	}

	var total float64
	var count int
	for _, name := range t.sortedNamesLocked() {
		entries := t.history[name]
		if len(entries) == 0 {
			continue
		}
		var sum float64
		for _, entry := range entries {
			sum += entry.Score
		}
		total += sum
		count += len(entries)
		average := sum / float64(len(entries))
		switch {
		case average >= strengthThreshold:
			analysis.Strengths = append(analysis.Strengths, name)
		case average < weaknessThreshold:
			analysis.Weaknesses = append(analysis.Weaknesses, name)
		}
	}
	if count > 0 {
		analysis.OverallAverage = total / float64(count)
	}
	analysis.Recommendations = buildRecommendations(analysis)
	return analysis
}

func (t *Tracker) sortedNamesLocked() []string {
	names := make([]string, 0, len(t.history))
	for name := range t.history {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildRecommendations derives coaching guidance from the performance split:
// one targeted line per weakness, one line naming up to two strengths, and
// one line keyed to the overall average band.
func buildRecommendations(analysis types.PerformanceAnalysis) []string {
	recommendations := make([]string, 0, len(analysis.Weaknesses)+2)
	for _, weakness := range analysis.Weaknesses {
		subs, ok := profile.SubCompetenciesFor(weakness)
		if ok && len(subs) > 0 {
			second := "related skills"
			if len(subs) > 1 {
				second = subs[1]
			}
			recommendations = append(recommendations,
				fmt.Sprintf("Focus on improving %s, particularly %s and %s", weakness, subs[0], second))
		} else {
			recommendations = append(recommendations,
				fmt.Sprintf("Practice more %s questions to build confidence", weakness))
		}
	}
	if len(analysis.Strengths) > 0 {
		top := analysis.Strengths
		if len(top) > 2 {
			top = top[:2]
		}
		recommendations = append(recommendations,
			fmt.Sprintf("Continue leveraging your strengths in %s during interviews", strings.Join(top, ", ")))
	}
	switch {
	case analysis.OverallAverage < 5:
		recommendations = append(recommendations, "Consider taking more practice tests to build overall interview skills")
	case analysis.OverallAverage < 7:
		recommendations = append(recommendations, "Focus on providing more specific examples and measurable results in your answers")
	default:
		recommendations = append(recommendations, "You're well-prepared! Practice mock interviews to maintain your skills")
	}
	return recommendations
}

func studyPlanFrom(summary types.ProgressSummary) types.StudyPlan {
	type scored struct {
		name    string
		average float64
	}
	var weak, strong []scored
	for name, progress := range summary.Competencies {
		switch {
		case progress.Average < focusThreshold:
			weak = append(weak, scored{name, progress.Average})
		case progress.Average >= strengthThreshold:
			strong = append(strong, scored{name, progress.Average})
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].average != weak[j].average {
			return weak[i].average < weak[j].average
		}
		return weak[i].name < weak[j].name
	})
	sort.Slice(strong, func(i, j int) bool {
		if strong[i].average != strong[j].average {
			return strong[i].average > strong[j].average
		}
		return strong[i].name < strong[j].name
	})
	if len(weak) > focusAreaLimit {
		weak = weak[:focusAreaLimit]
	}
	if len(strong) > maintenanceLimit {
		strong = strong[:maintenanceLimit]
	}

	plan := types.StudyPlan{
		FocusAreas:  make([]types.StudyPlanItem, 0, len(weak)),
		Maintenance: make([]types.StudyPlanItem, 0, len(strong)),
	}
	for _, area := range weak {
		subs, _ := profile.SubCompetenciesFor(area.name)
		plan.FocusAreas = append(plan.FocusAreas, types.StudyPlanItem{
			Competency:      area.name,
			Average:         area.average,
			SessionsPerWeek: focusSessionsPerWeek,
			SubCompetencies: subs,
			Progression:     []string{types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard},
		})
	}
	for _, area := range strong {
		plan.Maintenance = append(plan.Maintenance, types.StudyPlanItem{
			Competency:      area.name,
			Average:         area.average,
			SessionsPerWeek: maintenanceSessionsPerWeek,
			Progression:     []string{types.DifficultyHard},
		})
	}
	plan.Goals = types.StudyGoals{
		TargetOverallScore:   targetOverallScore,
		TimelineWeeks:        planTimelineWeeks,
		WeakCompetencyTarget: focusThreshold,
		TotalSessions:        len(plan.FocusAreas) * focusSessionsPerWeek * planTimelineWeeks,
	}
	return plan
}

func readinessLevel(average float64) string {
	switch {
	case average >= 8:
		return "Excellent"
	case average >= 6:
		return "Good"
	case average >= 4:
		return "Developing"
	default:
		return "Needs Improvement"
	}
}

// competencyReadiness returns the per-competency readiness label and the
// suggested next step for that level.
func competencyReadiness(average float64) (string, string) {
	switch {
	case average >= 8:
		return "Excellent - Interview Ready", "Maintain skills with periodic practice"
	case average >= 6:
		return "Good - Nearly Ready", "Practice challenging scenarios"
	case average >= 4:
		return "Developing - Needs Practice", "Focus on STAR method structure"
	default:
		return "Needs Significant Improvement", "Start with basic competency understanding"
	}
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
