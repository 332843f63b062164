package models

import "fmt"

// ThresholdEpsilon absorbs float rounding when a value is compared to a
// configured threshold, so 0.45+0.20 against 0.63 sits exactly on 0.02.
const ThresholdEpsilon = 1e-9

// Options are the analysis thresholds passed into the engine on every call
type Options struct {
	Tolerance           float64 `json:"tolerance"`             // Contradiction threshold
	ValueBetThreshold   float64 `json:"value_bet_threshold"`   // VALUE BET edge
	SmallValueThreshold float64 `json:"small_value_threshold"` // SMALL VALUE edge
	ModerateSeverity    float64 `json:"moderate_severity"`     // diff at which a contradiction is moderate
	MajorSeverity       float64 `json:"major_severity"`        // diff at which a contradiction is major
	LosingWeightFactor  float64 `json:"losing_weight_factor"`  // Weight multiplier for the losing market
}

// DefaultOptions returns the standard thresholds
func DefaultOptions() Options {
	return Options{
		Tolerance:           0.02,
		ValueBetThreshold:   0.05,
		SmallValueThreshold: 0.03,
		ModerateSeverity:    0.05,
		MajorSeverity:       0.10,
		LosingWeightFactor:  0.5,
	}
}

// Validate rejects inconsistent thresholds
func (o Options) Validate() error {
	if o.Tolerance < 0 || o.Tolerance >= 1 {
		return fmt.Errorf("tolerance must be in [0, 1), got %v", o.Tolerance)
	}
	if o.SmallValueThreshold < 0 {
		return fmt.Errorf("small_value_threshold must be >= 0, got %v", o.SmallValueThreshold)
	}
	if o.ValueBetThreshold < o.SmallValueThreshold {
		return fmt.Errorf("value_bet_threshold (%v) must be >= small_value_threshold (%v)", o.ValueBetThreshold, o.SmallValueThreshold)
	}
	if o.ModerateSeverity <= 0 || o.MajorSeverity <= o.ModerateSeverity {
		return fmt.Errorf("severity bounds must satisfy 0 < moderate (%v) < major (%v)", o.ModerateSeverity, o.MajorSeverity)
	}
	if o.LosingWeightFactor <= 0 || o.LosingWeightFactor > 1 {
		return fmt.Errorf("losing_weight_factor must be in (0, 1], got %v", o.LosingWeightFactor)
	}
	return nil
}

// AtLeast reports whether v reaches threshold within ThresholdEpsilon
func AtLeast(v, threshold float64) bool {
	return v >= threshold-ThresholdEpsilon
}

// Exceeds reports whether a violation is strictly above the tolerance.
// A diff equal to the tolerance, up to ThresholdEpsilon, does not exceed it.
func (o Options) Exceeds(diff float64) bool {
	return diff > o.Tolerance+ThresholdEpsilon
}

// SeverityFor buckets a violation magnitude into a tier
func (o Options) SeverityFor(diff float64) Severity {
	switch {
	case AtLeast(diff, o.MajorSeverity):
		return SeverityMajor
	case AtLeast(diff, o.ModerateSeverity):
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// OptionOverrides carries per-request changes to the configured options
type OptionOverrides struct {
	Tolerance           *float64 `json:"tolerance,omitempty"`
	ValueBetThreshold   *float64 `json:"value_bet_threshold,omitempty"`
	SmallValueThreshold *float64 `json:"small_value_threshold,omitempty"`
	ModerateSeverity    *float64 `json:"moderate_severity,omitempty"`
	MajorSeverity       *float64 `json:"major_severity,omitempty"`
	LosingWeightFactor  *float64 `json:"losing_weight_factor,omitempty"`
}

// Apply returns a copy of the options with the overrides set
func (o Options) Apply(overrides *OptionOverrides) Options {
	if overrides == nil {
		return o
	}
	if overrides.Tolerance != nil {
		o.Tolerance = *overrides.Tolerance
	}
	if overrides.ValueBetThreshold != nil {
		o.ValueBetThreshold = *overrides.ValueBetThreshold
	}
	if overrides.SmallValueThreshold != nil {
		o.SmallValueThreshold = *overrides.SmallValueThreshold
	}
	if overrides.ModerateSeverity != nil {
		o.ModerateSeverity = *overrides.ModerateSeverity
	}
	if overrides.MajorSeverity != nil {
		o.MajorSeverity = *overrides.MajorSeverity
	}
	if overrides.LosingWeightFactor != nil {
		o.LosingWeightFactor = *overrides.LosingWeightFactor
	}
	return o
}
