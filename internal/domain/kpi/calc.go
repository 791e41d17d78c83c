package kpi

import "math"

// CalculationResult carries the derived fields for one KPI. Branch names the
// scoring rule that fired, which reporting uses to explain a score.
type CalculationResult struct {
	Percentage float64 `json:"percentageAchievement"`
	Score      float64 `json:"scoreAchievement"`
	Rating     string  `json:"performanceRating"`
	Branch     string  `json:"branch"`
}

// Calculate turns a (target, achievement) pair into percentage, score and
// rating. Nil values are treated as zero. A zero target with a zero
// achievement counts as fully met; a zero on one side only counts as missed.
// For negative-direction KPIs the ratio is inverted since lower raw values
// are better. Over-achievement never raises the score past the weighted
// maximum.
func Calculate(target, achievement *float64, direction string, objectiveWeight, kpiWeight float64) CalculationResult {
	targetValue := 0.0
	if target != nil {
		targetValue = *target
	}
	achievementValue := 0.0
	if achievement != nil {
		achievementValue = *achievement
	}

	var percentage float64
	switch {
	case targetValue == 0 && achievementValue == 0:
		percentage = 1.0
	case targetValue == 0 || achievementValue == 0:
		percentage = 0
	case direction == DirectionNegative:
		percentage = round2(targetValue / achievementValue)
	default:
		percentage = round2(achievementValue / targetValue)
	}

	result := CalculationResult{Percentage: percentage}
	weighted := kpiWeight * objectiveWeight

	switch {
	case percentage < 0.60:
		result.Rating = RatingRed
		result.Branch = BranchRed
		result.Score = 0
	case percentage < 1.00:
		result.Rating = RatingYellow
		result.Branch = BranchYellow
		result.Score = round4(percentage * weighted)
	case percentage == 1.00:
		result.Rating = RatingGreen
		result.Branch = BranchGreen
		result.Score = round4(weighted * percentage)
	default:
		result.Rating = RatingGreen
		result.Branch = BranchBonus
		result.Score = round4(objectiveWeight * kpiWeight)
	}
	return result
}

// AggregateWeighted computes the weighted mean of the given scores. A length
// mismatch or zero total weight yields 0; the caller detects the mismatch by
// comparing lengths itself.
func AggregateWeighted(scores, weights []float64) float64 {
	if len(scores) != len(weights) {
		return 0
	}
	var weightedSum, totalWeight float64
	for i, score := range scores {
		weightedSum += score * weights[i]
		totalWeight += weights[i]
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
