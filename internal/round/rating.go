package round

import "math"

type Performance struct {
	Rating  string `json:"rating"`
	Message string `json:"message"`
}

// Rate grades a total score against the maximum of 100 per round.
func Rate(totalScore, rounds int) Performance {
	percentage := 0.0
	if rounds > 0 {
		percentage = float64(totalScore) / float64(rounds*100) * 100
	}
	switch {
	case percentage >= 85:
		return Performance{Rating: "Excellent", Message: "Outstanding performance!"}
	case percentage >= 70:
		return Performance{Rating: "Great", Message: "Great job!"}
	case percentage >= 50:
		return Performance{Rating: "Good", Message: "Good effort!"}
	default:
		return Performance{Rating: "Keep Practicing", Message: "Keep improving!"}
	}
}

func AverageScore(totalScore, rounds int) float64 {
	if rounds <= 0 {
		return 0
	}
	return math.Round(float64(totalScore)/float64(rounds)*10) / 10
}

// DurationMinutes rounds up, so a game shorter than a minute counts as one.
func DurationMinutes(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Ceil(seconds / 60))
}
