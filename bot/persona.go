package bot

// Weights defines the tunable parameters for a GreedyPolicy.
type Weights struct {
	ScoreDrive   float64 `json:"scoreDrive"`   // 0.0–1.0: value of growing the score pile
	IconDrive    float64 `json:"iconDrive"`    // 0.0–1.0: value of icons added by melds
	AchieveDrive float64 `json:"achieveDrive"` // 0.0–1.0: priority of claiming achievements
	DogmaDrive   float64 `json:"dogmaDrive"`   // 0.0–1.0: appetite for activating effects
	Randomness   float64 `json:"randomness"`   // 0.0–1.0: decision noise
}

// Persona defines a named bot character.
type Persona struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Tagline string  `json:"tagline"`
	Tier    int     `json:"tier"` // 1=featured, 2=supporting, 3=random
	Brain   Weights `json:"brain"`
}
