package scoring

import "math"

// Dimensions is the full set of scores derived from one response set.
type Dimensions struct {
	People           float64 `json:"people"`
	Production       float64 `json:"production"`
	Care             float64 `json:"care"`
	Challenge        float64 `json:"challenge"`
	LMX              float64 `json:"lmx"`
	Machiavellianism float64 `json:"machiavellianism"`
	Narcissism       float64 `json:"narcissism"`
	Psychopathy      float64 `json:"psychopathy"`
}

// Candor is the mean of care and challenge.
func (d Dimensions) Candor() float64 {
	return round2((d.Care + d.Challenge) / 2)
}

// Influence is the mean of the three hidden traits.
func (d Dimensions) Influence() float64 {
	return round2((d.Machiavellianism + d.Narcissism + d.Psychopathy) / 3)
}

// Get returns the score for dim.
func (d Dimensions) Get(dim Dimension) float64 {
	switch dim {
	case People:
		return d.People
	case Production:
		return d.Production
	case Care:
		return d.Care
	case Challenge:
		return d.Challenge
	case LMX:
		return d.LMX
	case Machiavellianism:
		return d.Machiavellianism
	case Narcissism:
		return d.Narcissism
	case Psychopathy:
		return d.Psychopathy
	}
	return 0
}

func (d *Dimensions) set(dim Dimension, v float64) {
	switch dim {
	case People:
		d.People = v
	case Production:
		d.Production = v
	case Care:
		d.Care = v
	case Challenge:
		d.Challenge = v
	case LMX:
		d.LMX = v
	case Machiavellianism:
		d.Machiavellianism = v
	case Narcissism:
		d.Narcissism = v
	case Psychopathy:
		d.Psychopathy = v
	}
}

// Calculate averages each item group. Missing items count as the scale
// midpoint; hidden groups are rescaled to 1..5 and clamped so the lowest
// rating still reports as 1.
func Calculate(raw map[string]int) Dimensions {
	var out Dimensions
	for _, group := range Items {
		fallback := defaultRating
		if group.Hidden {
			fallback = defaultHidden
		}
		sum := 0.0
		for _, item := range group.Items {
			if v, ok := raw[item]; ok {
				sum += float64(v)
			} else {
				sum += fallback
			}
		}
		score := sum / float64(len(group.Items))
		if group.Hidden {
			score = clamp(score*hiddenRescale, MinRating, HiddenMaxScore)
		}
		out.set(group.Dimension, round2(score))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*decimalRounding) / decimalRounding
}
