package ai

// Weights tunes the intent evaluator. Magnitudes are empirical; what matters
// is what each one gates.
type Weights struct {
	// Exponent shapes the need deficit curve 100*((100-v)/100)^Exponent.
	Exponent float64 `yaml:"exponent"`

	Hunger  float64 `yaml:"hunger"`
	Energy  float64 `yaml:"energy"`
	Hygiene float64 `yaml:"hygiene"`
	Bladder float64 `yaml:"bladder"`
	Social  float64 `yaml:"social"`
	Fun     float64 `yaml:"fun"`
	Comfort float64 `yaml:"comfort"`
	Health  float64 `yaml:"health"`

	// Work and School are flat scores while an obligation is due.
	Work   float64 `yaml:"work"`
	School float64 `yaml:"school"`
	// NightSleep is added to Sleep at night, scaled by the energy deficit.
	NightSleep float64 `yaml:"night_sleep"`
	// Loneliness is added to Socialize for unpaired adults lonely for LonelyMinutes.
	Loneliness    float64 `yaml:"loneliness"`
	LonelyMinutes float64 `yaml:"lonely_minutes"`

	// MinScore is the floor below which the agent just wanders.
	MinScore float64 `yaml:"min_score"`
	// EmergencyScore is reported for emergency decisions.
	EmergencyScore float64 `yaml:"emergency_score"`
}

// DefaultWeights returns the baseline tuning.
func DefaultWeights() Weights {
	return Weights{
		Exponent:       2,
		Hunger:         1.2,
		Energy:         1.0,
		Hygiene:        0.7,
		Bladder:        1.1,
		Social:         0.6,
		Fun:            0.6,
		Comfort:        0.4,
		Health:         1.5,
		Work:           70,
		School:         65,
		NightSleep:     40,
		Loneliness:     25,
		LonelyMinutes:  12 * 60,
		MinScore:       10,
		EmergencyScore: 1000,
	}
}

// PlannerWeights tunes target ranking.
type PlannerWeights struct {
	// Distance is the penalty per world unit of travel.
	Distance float64 `yaml:"distance"`
	// Price scales (snobbery - frugality) * price tier.
	Price float64 `yaml:"price"`
	// Affinity scales the agent's trait affinity for the target utility.
	Affinity float64 `yaml:"affinity"`
	// Mood scales how much good mood favours pricier targets.
	Mood float64 `yaml:"mood"`
	// TopN candidates receive a random perturbation of up to Jitter.
	TopN   int     `yaml:"top_n"`
	Jitter float64 `yaml:"jitter"`

	// SocialRadius bounds the search for a conversation partner.
	SocialRadius float64 `yaml:"social_radius"`
	// WanderRadius is in grid cells.
	WanderRadius int `yaml:"wander_radius"`
	// FallbackWait is the wait in sim minutes appended to fallback plans.
	FallbackWait float64 `yaml:"fallback_wait"`
}

// DefaultPlannerWeights returns the baseline ranking.
func DefaultPlannerWeights() PlannerWeights {
	return PlannerWeights{
		Distance:     0.05,
		Price:        4,
		Affinity:     10,
		Mood:         2,
		TopN:         3,
		Jitter:       5,
		SocialRadius: 400,
		WanderRadius: 6,
		FallbackWait: 15,
	}
}

// Config bundles the decision engine settings.
type Config struct {
	Evaluator Weights        `yaml:"evaluator"`
	Planner   PlannerWeights `yaml:"planner"`
	// CooldownTicks throttles re-evaluation of an idle agent with an empty queue.
	CooldownTicks int `yaml:"decision_cooldown_ticks"`
	// UnreachableCooldownTicks is the back-off after a path search comes back empty.
	UnreachableCooldownTicks int `yaml:"unreachable_cooldown_ticks"`
}

// DefaultConfig returns the baseline decision engine settings.
func DefaultConfig() Config {
	return Config{
		Evaluator:                DefaultWeights(),
		Planner:                  DefaultPlannerWeights(),
		CooldownTicks:            5,
		UnreachableCooldownTicks: 20,
	}
}
