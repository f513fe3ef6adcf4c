package scoring

// Additive scoring model: every session starts at the base and earns bonuses
// per signal tier. Thresholds are part of the report contract with historical
// sessions; treat any change as a new scoring policy version.
const (
	baseScore = 50

	eyeContactHighPct   = 70
	eyeContactMediumPct = 50
	eyeContactLowPct    = 30

	paceIdealMin = 130
	paceIdealMax = 160
	paceGoodMin  = 110
	paceGoodMax  = 180
	paceOKMin    = 90
	paceOKMax    = 200

	fillerRateLow    = 2.0
	fillerRateMedium = 4.0
	fillerRateHigh   = 6.0

	minSessionSeconds = 120
)

// GenerateConfidenceScore combines the aggregated signals into one bounded
// score. Pure function of its arguments; no hidden state.
func GenerateConfidenceScore(eyeContactPercentage, wpm, fillerWordsCount, durationSeconds int) int {
	score := baseScore

	switch {
	case eyeContactPercentage >= eyeContactHighPct:
		score += 20
	case eyeContactPercentage >= eyeContactMediumPct:
		score += 10
	case eyeContactPercentage >= eyeContactLowPct:
		score += 5
	}

	switch {
	case wpm >= paceIdealMin && wpm <= paceIdealMax:
		score += 15
	case wpm >= paceGoodMin && wpm <= paceGoodMax:
		score += 10
	case wpm >= paceOKMin && wpm <= paceOKMax:
		score += 5
	}

	// Plain float division: a zero duration produces Inf/NaN rates whose
	// comparisons all fail, landing in the penalty branch.
	minutes := float64(durationSeconds) / 60
	fillerPerMinute := float64(fillerWordsCount) / minutes
	switch {
	case fillerPerMinute < fillerRateLow:
		score += 15
	case fillerPerMinute < fillerRateMedium:
		score += 10
	case fillerPerMinute < fillerRateHigh:
		score += 5
	default:
		score -= 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// GenerateStrengths lists what went well. The result is never empty: a session
// with no triggered strength still gets an acknowledgment line.
func GenerateStrengths(eyeContactPercentage, wpm, fillerWordsCount, durationSeconds int) []string {
	var strengths []string
	minutes := float64(durationSeconds) / 60
	fillerPerMinute := float64(fillerWordsCount) / minutes

	if eyeContactPercentage >= eyeContactHighPct {
		strengths = append(strengths, "Excellent eye contact throughout the session")
	}
	if wpm >= paceIdealMin && wpm <= paceIdealMax {
		strengths = append(strengths, "Perfect speaking pace - clear and engaging")
	}
	if fillerPerMinute < fillerRateLow {
		strengths = append(strengths, "Minimal use of filler words - very professional")
	}
	if durationSeconds >= minSessionSeconds {
		strengths = append(strengths, "Good session duration for meaningful practice")
	}

	if len(strengths) == 0 {
		strengths = append(strengths, "Completed a full practice session - great commitment")
	}

	return strengths
}

// GenerateImprovements lists what to work on next; never empty.
//
// The filler-rate check divides by a literal one-minute denominator, unlike
// the score computation above which uses elapsed minutes. That asymmetry is
// preserved deliberately for compatibility with existing reports.
func GenerateImprovements(eyeContactPercentage, wpm, fillerWordsCount int) []string {
	var improvements []string
	minutes := 1.0
	fillerPerMinute := float64(fillerWordsCount) / minutes

	if eyeContactPercentage < eyeContactMediumPct {
		improvements = append(improvements, "Practice maintaining eye contact with the camera more consistently")
	}
	if wpm < 120 {
		improvements = append(improvements, "Try speaking slightly faster to maintain audience engagement")
	} else if wpm > 170 {
		improvements = append(improvements, "Slow down your speaking pace to improve clarity")
	}
	if fillerPerMinute > fillerRateMedium {
		improvements = append(improvements, "Work on reducing filler words like 'um', 'uh', and 'like'")
	}

	if len(improvements) == 0 {
		improvements = append(improvements, "Continue practicing regularly to maintain your strong performance")
	}

	return improvements
}
