package learning

const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

const (
	GoalPlacement = "placement"
	GoalMastery   = "mastery"
	GoalRevision  = "revision"
)

const (
	StyleTheory    = "theory"
	StylePractical = "practical"
	StyleMixed     = "mixed"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	MinPerDayHours = 1
	MaxPerDayHours = 10
)

const (
	DefaultTopicDifficulty     = DifficultyMedium
	DefaultTopicTimeMinutes    = 60
	DefaultSubmoduleSummaryFmt = "Default submodule for \"%s\""
)
